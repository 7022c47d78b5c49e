package main

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"soundhaven/internal/app/history"
	"soundhaven/internal/app/playlists"
	"soundhaven/internal/app/recommendations"
	"soundhaven/internal/app/users"
	"soundhaven/internal/auth"
	"soundhaven/internal/httpapi"
	"soundhaven/internal/middleware"
	"soundhaven/internal/musicapi"
	"soundhaven/internal/store"
	"soundhaven/internal/textgen"
)

const tokenTTL = 24 * time.Hour

func newHTTPHandler(cfg Config, dataStore *store.Store, gen textgen.Generator, log zerolog.Logger) http.Handler {
	authSvc := auth.New([]byte(cfg.JWTSecret), tokenTTL)
	catalog := musicapi.NewJamendoClient(cfg.JamendoClientID)

	userSvc := users.New(dataStore, authSvc)
	playlistSvc := playlists.New(dataStore)
	historySvc := history.New(dataStore)
	recSvc := recommendations.New(dataStore, catalog, gen, log)

	handler := httpapi.New(userSvc, playlistSvc, historySvc, recSvc, catalog, authSvc).Routes()

	handler = middleware.CORS(cfg.AllowedOrigin)(handler)
	handler = middleware.RequestLogging(log)(handler)
	handler = middleware.Recovery(log)(handler)
	return handler
}
