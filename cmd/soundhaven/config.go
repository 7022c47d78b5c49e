package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"soundhaven/internal/textgen"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL     string
	Addr            string
	JWTSecret       string
	JamendoClientID string
	GeminiAPIKey    string
	GeminiModel     string
	AllowedOrigin   string
	LogLevel        string
	LogFormat       string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Addr:            fmt.Sprintf(":%s", envOrDefault("PORT", "8080")),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JamendoClientID: os.Getenv("JAMENDO_CLIENT_ID"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     envOrDefault("GEMINI_MODEL", textgen.DefaultModel),
		AllowedOrigin:   envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL env var is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET env var is required")
	}
	if cfg.JamendoClientID == "" {
		return Config{}, errors.New("JAMENDO_CLIENT_ID env var is required")
	}
	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY env var is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
