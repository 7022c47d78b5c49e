package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soundhaven/internal/logging"
	"soundhaven/internal/store"
	"soundhaven/internal/textgen"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		errLog := logging.New("info", "json")
		errLog.Error().Err(err).Msg("invalid configuration")
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error().Err(err).Msg("database unavailable")
		return err
	}
	defer db.Close()

	dataStore := store.New(db)
	if err := dataStore.EnsureSchema(ctx); err != nil {
		log.Error().Err(err).Msg("schema setup failed")
		return err
	}

	gemini, err := textgen.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Error().Err(err).Msg("gemini client setup failed")
		return err
	}
	defer gemini.Close()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHTTPHandler(cfg, dataStore, gemini, log),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		return err
	}
	return nil
}
