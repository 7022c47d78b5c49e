package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"soundhaven/internal/app/recommendations"
	"soundhaven/internal/musicapi"
	"soundhaven/internal/store"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, email, password string, name *string) (store.User, error)
	Login(ctx context.Context, email, password string) (string, store.User, error)
}

// PlaylistService coordinates playlist-related operations.
type PlaylistService interface {
	Create(ctx context.Context, userID int64, name string, initial musicapi.Track) (store.PlaylistSummary, error)
	List(ctx context.Context, userID int64) ([]store.PlaylistSummary, error)
	Get(ctx context.Context, userID, playlistID int64) (store.Playlist, error)
	AddSong(ctx context.Context, userID, playlistID int64, track musicapi.Track) (store.PlaylistSong, error)
	RemoveSong(ctx context.Context, userID, playlistID int64, trackID string) error
	Delete(ctx context.Context, userID, playlistID int64) error
}

// HistoryService records and lists play events.
type HistoryService interface {
	Record(ctx context.Context, userID int64, entry store.NewHistoryEntry) (store.HistoryEntry, error)
	List(ctx context.Context, userID int64, limit int) ([]store.HistoryEntry, error)
}

// RecommendationService runs the generation pipeline for a user.
type RecommendationService interface {
	Generate(ctx context.Context, userID int64) ([]recommendations.Recommendation, error)
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	playlists PlaylistService
	history   HistoryService
	recs      RecommendationService
	catalog   musicapi.CatalogClient
	tokens    TokenVerifier
}

// New configures a Server with the given service implementations.
func New(
	users UserService,
	playlists PlaylistService,
	history HistoryService,
	recs RecommendationService,
	catalog musicapi.CatalogClient,
	tokens TokenVerifier,
) *Server {
	return &Server{
		users:     users,
		playlists: playlists,
		history:   history,
		recs:      recs,
		catalog:   catalog,
		tokens:    tokens,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/recommendations", s.handleRecommendations)

	mux.HandleFunc("POST /api/history", s.handleRecordHistory)
	mux.HandleFunc("GET /api/history", s.handleListHistory)

	mux.HandleFunc("POST /api/playlists", s.handleCreatePlaylist)
	mux.HandleFunc("GET /api/playlists", s.handleListPlaylists)
	mux.HandleFunc("GET /api/playlists/{id}", s.handleGetPlaylist)
	mux.HandleFunc("DELETE /api/playlists/{id}", s.handleDeletePlaylist)
	mux.HandleFunc("POST /api/playlists/{id}/songs", s.handleAddSong)
	mux.HandleFunc("DELETE /api/playlists/{id}/songs/{songId}", s.handleRemoveSong)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// authenticate resolves the bearer token on the request. On failure it has
// already written the 401 response.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (int64, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return 0, false
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
		return 0, false
	}
	return userID, true
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
