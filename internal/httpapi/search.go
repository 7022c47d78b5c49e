package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

const defaultSearchLimit = 20

// handleSearch proxies catalog search. The route is public; browsing the
// catalog needs no account.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter q is required"})
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	tracks, err := s.catalog.SearchTracks(r.Context(), query, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "track search failed: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}
