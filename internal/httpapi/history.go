package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"soundhaven/internal/store"
)

type recordHistoryRequest struct {
	SongID string  `json:"songId"`
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Genre  *string `json:"genre"`
	Mood   *string `json:"mood"`
}

func (r recordHistoryRequest) validate() error {
	if strings.TrimSpace(r.SongID) == "" {
		return errors.New("songId is required")
	}
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Artist) == "" {
		return errors.New("title and artist are required")
	}
	return nil
}

func (s *Server) handleRecordHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req recordHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	entry, err := s.history.Record(r.Context(), userID, store.NewHistoryEntry{
		TrackID: req.SongID,
		Title:   req.Title,
		Artist:  req.Artist,
		Genre:   req.Genre,
		Mood:    req.Mood,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	entries, err := s.history.List(r.Context(), userID, store.MaxHistoryLimit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
