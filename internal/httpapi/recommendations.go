package httpapi

import (
	"errors"
	"net/http"

	"soundhaven/internal/app/recommendations"
)

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	recs, err := s.recs.Generate(r.Context(), userID)
	if err != nil {
		if errors.Is(err, recommendations.ErrGenerationFailed) {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "recommendation generation failed"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, recs)
}
