package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"soundhaven/internal/musicapi"
	"soundhaven/internal/store"
)

type createPlaylistRequest struct {
	Name        string         `json:"name"`
	InitialSong musicapi.Track `json:"initialSong"`
}

func (r createPlaylistRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("playlist name is required")
	}
	if r.InitialSong.ID == "" || r.InitialSong.Title == "" {
		return errors.New("an initial song with an id and title is required")
	}
	return nil
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	summary, err := s.playlists.Create(r.Context(), userID, req.Name, req.InitialSong)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	summaries, err := s.playlists.List(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	playlistID, ok := parsePlaylistID(w, r)
	if !ok {
		return
	}

	playlist, err := s.playlists.Get(r.Context(), userID, playlistID)
	if err != nil {
		writePlaylistError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	playlistID, ok := parsePlaylistID(w, r)
	if !ok {
		return
	}

	if err := s.playlists.Delete(r.Context(), userID, playlistID); err != nil {
		writePlaylistError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	playlistID, ok := parsePlaylistID(w, r)
	if !ok {
		return
	}

	var track musicapi.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	if track.ID == "" || track.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "song id and title are required"})
		return
	}

	song, err := s.playlists.AddSong(r.Context(), userID, playlistID, track)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateSong):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "song already in playlist"})
		case errors.Is(err, store.ErrPlaylistNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "playlist not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) handleRemoveSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	playlistID, ok := parsePlaylistID(w, r)
	if !ok {
		return
	}

	trackID := r.PathValue("songId")
	if trackID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "song id is required"})
		return
	}

	if err := s.playlists.RemoveSong(r.Context(), userID, playlistID, trackID); err != nil {
		switch {
		case errors.Is(err, store.ErrPlaylistNotFound), errors.Is(err, store.ErrSongNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parsePlaylistID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist id"})
		return 0, false
	}
	return id, true
}

func writePlaylistError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrPlaylistNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "playlist not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
