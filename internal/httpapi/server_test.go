package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"soundhaven/internal/app/recommendations"
	"soundhaven/internal/musicapi"
	"soundhaven/internal/store"
)

type stubUserService struct {
	registered  store.User
	registerErr error

	token     string
	loginUser store.User
	loginErr  error

	lastEmail    string
	lastPassword string
}

func (s *stubUserService) Register(_ context.Context, email, password string, _ *string) (store.User, error) {
	s.lastEmail = email
	s.lastPassword = password
	if s.registerErr != nil {
		return store.User{}, s.registerErr
	}
	return s.registered, nil
}

func (s *stubUserService) Login(_ context.Context, email, password string) (string, store.User, error) {
	s.lastEmail = email
	s.lastPassword = password
	if s.loginErr != nil {
		return "", store.User{}, s.loginErr
	}
	return s.token, s.loginUser, nil
}

type stubPlaylistService struct {
	created   store.PlaylistSummary
	createErr error

	summaries []store.PlaylistSummary
	listErr   error

	playlist store.Playlist
	getErr   error

	addedSong store.PlaylistSong
	addErr    error

	removeErr error
	deleteErr error

	lastUserID     int64
	lastPlaylistID int64
	lastTrackID    string
}

func (s *stubPlaylistService) Create(_ context.Context, userID int64, name string, initial musicapi.Track) (store.PlaylistSummary, error) {
	s.lastUserID = userID
	if s.createErr != nil {
		return store.PlaylistSummary{}, s.createErr
	}
	return s.created, nil
}

func (s *stubPlaylistService) List(_ context.Context, userID int64) ([]store.PlaylistSummary, error) {
	s.lastUserID = userID
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.summaries, nil
}

func (s *stubPlaylistService) Get(_ context.Context, userID, playlistID int64) (store.Playlist, error) {
	s.lastUserID = userID
	s.lastPlaylistID = playlistID
	if s.getErr != nil {
		return store.Playlist{}, s.getErr
	}
	return s.playlist, nil
}

func (s *stubPlaylistService) AddSong(_ context.Context, userID, playlistID int64, track musicapi.Track) (store.PlaylistSong, error) {
	s.lastUserID = userID
	s.lastPlaylistID = playlistID
	s.lastTrackID = track.ID
	if s.addErr != nil {
		return store.PlaylistSong{}, s.addErr
	}
	return s.addedSong, nil
}

func (s *stubPlaylistService) RemoveSong(_ context.Context, userID, playlistID int64, trackID string) error {
	s.lastUserID = userID
	s.lastPlaylistID = playlistID
	s.lastTrackID = trackID
	return s.removeErr
}

func (s *stubPlaylistService) Delete(_ context.Context, userID, playlistID int64) error {
	s.lastUserID = userID
	s.lastPlaylistID = playlistID
	return s.deleteErr
}

type stubHistoryService struct {
	recorded  store.HistoryEntry
	recordErr error

	entries []store.HistoryEntry
	listErr error

	lastEntry store.NewHistoryEntry
	lastLimit int
}

func (s *stubHistoryService) Record(_ context.Context, _ int64, entry store.NewHistoryEntry) (store.HistoryEntry, error) {
	s.lastEntry = entry
	if s.recordErr != nil {
		return store.HistoryEntry{}, s.recordErr
	}
	return s.recorded, nil
}

func (s *stubHistoryService) List(_ context.Context, _ int64, limit int) ([]store.HistoryEntry, error) {
	s.lastLimit = limit
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.entries, nil
}

type stubRecommendationService struct {
	recs []recommendations.Recommendation
	err  error
}

func (s *stubRecommendationService) Generate(context.Context, int64) ([]recommendations.Recommendation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.recs, nil
}

type stubCatalog struct {
	tracks []musicapi.Track
	err    error

	lastQuery string
	lastLimit int
}

func (s *stubCatalog) SearchTracks(_ context.Context, query string, limit int) ([]musicapi.Track, error) {
	s.lastQuery = query
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.tracks, nil
}

type stubVerifier struct {
	userID int64
	err    error
}

func (s stubVerifier) Verify(string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.userID, nil
}

type testServerOpts struct {
	users     *stubUserService
	playlists *stubPlaylistService
	history   *stubHistoryService
	recs      *stubRecommendationService
	catalog   *stubCatalog
	verifier  stubVerifier
}

func newTestServer(t *testing.T, opts testServerOpts) *Server {
	t.Helper()
	if opts.users == nil {
		opts.users = &stubUserService{}
	}
	if opts.playlists == nil {
		opts.playlists = &stubPlaylistService{}
	}
	if opts.history == nil {
		opts.history = &stubHistoryService{}
	}
	if opts.recs == nil {
		opts.recs = &stubRecommendationService{}
	}
	if opts.catalog == nil {
		opts.catalog = &stubCatalog{}
	}
	if opts.verifier == (stubVerifier{}) {
		opts.verifier = stubVerifier{userID: 42}
	}
	return New(opts.users, opts.playlists, opts.history, opts.recs, opts.catalog, opts.verifier)
}

func doRequest(t *testing.T, server *Server, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if authed {
		req.Header.Set("Authorization", "Bearer token-123")
	}
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)
	return rr
}

func TestHandleRegisterSuccess(t *testing.T) {
	users := &stubUserService{
		registered: store.User{ID: 7, Email: "new@example.com"},
	}
	server := newTestServer(t, testServerOpts{users: users})

	rr := doRequest(t, server, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "new@example.com",
		"password": "secret1",
	}, false)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	var payload struct {
		User store.User `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.User.ID != 7 || payload.User.Email != "new@example.com" {
		t.Fatalf("unexpected user payload: %#v", payload.User)
	}
	if users.lastEmail != "new@example.com" {
		t.Fatalf("expected email forwarded to service, got %q", users.lastEmail)
	}
}

func TestHandleRegisterShortPassword(t *testing.T) {
	server := newTestServer(t, testServerOpts{})

	rr := doRequest(t, server, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "new@example.com",
		"password": "short",
	}, false)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleRegisterDuplicateEmail(t *testing.T) {
	users := &stubUserService{registerErr: store.ErrUserExists}
	server := newTestServer(t, testServerOpts{users: users})

	rr := doRequest(t, server, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "taken@example.com",
		"password": "secret1",
	}, false)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}
}

func TestHandleLoginSuccess(t *testing.T) {
	users := &stubUserService{
		token:     "jwt-token",
		loginUser: store.User{ID: 3, Email: "user@example.com"},
	}
	server := newTestServer(t, testServerOpts{users: users})

	rr := doRequest(t, server, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "secret1",
	}, false)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var payload loginResponse
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Token != "jwt-token" || payload.User.ID != 3 {
		t.Fatalf("unexpected login payload: %#v", payload)
	}
}

func TestHandleLoginBadCredentials(t *testing.T) {
	users := &stubUserService{loginErr: store.ErrInvalidCredentials}
	server := newTestServer(t, testServerOpts{users: users})

	rr := doRequest(t, server, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "wrongpw",
	}, false)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleSearchSuccess(t *testing.T) {
	catalog := &stubCatalog{
		tracks: []musicapi.Track{{ID: "t1", Title: "Song", Artist: "Artist"}},
	}
	server := newTestServer(t, testServerOpts{catalog: catalog})

	rr := doRequest(t, server, http.MethodGet, "/api/search?q=jazz&limit=5", nil, false)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if catalog.lastQuery != "jazz" || catalog.lastLimit != 5 {
		t.Fatalf("unexpected search args: query=%q limit=%d", catalog.lastQuery, catalog.lastLimit)
	}
	var tracks []musicapi.Track
	if err := json.NewDecoder(rr.Body).Decode(&tracks); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != "t1" {
		t.Fatalf("unexpected tracks payload: %#v", tracks)
	}
}

func TestHandleSearchMissingQuery(t *testing.T) {
	server := newTestServer(t, testServerOpts{})

	rr := doRequest(t, server, http.MethodGet, "/api/search", nil, false)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleSearchDefaultLimit(t *testing.T) {
	catalog := &stubCatalog{}
	server := newTestServer(t, testServerOpts{catalog: catalog})

	rr := doRequest(t, server, http.MethodGet, "/api/search?q=rock", nil, false)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if catalog.lastLimit != defaultSearchLimit {
		t.Fatalf("expected default limit %d, got %d", defaultSearchLimit, catalog.lastLimit)
	}
}

func TestHandleSearchUpstreamError(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("jamendo unavailable")}
	server := newTestServer(t, testServerOpts{catalog: catalog})

	rr := doRequest(t, server, http.MethodGet, "/api/search?q=rock", nil, false)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestHandleSearchNeedsNoToken(t *testing.T) {
	catalog := &stubCatalog{
		tracks: []musicapi.Track{{ID: "t1", Title: "Song", Artist: "Artist"}},
	}
	server := newTestServer(t, testServerOpts{
		catalog:  catalog,
		verifier: stubVerifier{err: errors.New("no token should be checked")},
	})

	rr := doRequest(t, server, http.MethodGet, "/api/search?q=jazz", nil, false)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if catalog.lastQuery != "jazz" {
		t.Fatalf("expected query forwarded, got %q", catalog.lastQuery)
	}
}

func TestHandleCreatePlaylistSuccess(t *testing.T) {
	playlists := &stubPlaylistService{
		created: store.PlaylistSummary{ID: 1, Name: "Chill", SongCount: 1},
	}
	server := newTestServer(t, testServerOpts{playlists: playlists})

	rr := doRequest(t, server, http.MethodPost, "/api/playlists", map[string]any{
		"name": "Chill",
		"initialSong": map[string]string{
			"id":    "t1",
			"title": "Song",
		},
	}, true)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if playlists.lastUserID != 42 {
		t.Fatalf("expected user id 42, got %d", playlists.lastUserID)
	}
}

func TestHandleCreatePlaylistMissingInitialSong(t *testing.T) {
	server := newTestServer(t, testServerOpts{})

	rr := doRequest(t, server, http.MethodPost, "/api/playlists", map[string]any{
		"name": "Chill",
	}, true)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleGetPlaylistNotOwned(t *testing.T) {
	playlists := &stubPlaylistService{getErr: store.ErrPlaylistNotFound}
	server := newTestServer(t, testServerOpts{playlists: playlists})

	rr := doRequest(t, server, http.MethodGet, "/api/playlists/9", nil, true)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	if playlists.lastPlaylistID != 9 {
		t.Fatalf("expected playlist id 9, got %d", playlists.lastPlaylistID)
	}
}

func TestHandleGetPlaylistBadID(t *testing.T) {
	server := newTestServer(t, testServerOpts{})

	rr := doRequest(t, server, http.MethodGet, "/api/playlists/not-a-number", nil, true)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleAddSongDuplicate(t *testing.T) {
	playlists := &stubPlaylistService{addErr: store.ErrDuplicateSong}
	server := newTestServer(t, testServerOpts{playlists: playlists})

	rr := doRequest(t, server, http.MethodPost, "/api/playlists/3/songs", map[string]string{
		"id":    "t1",
		"title": "Song",
	}, true)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}
}

func TestHandleAddSongSuccess(t *testing.T) {
	playlists := &stubPlaylistService{
		addedSong: store.PlaylistSong{ID: 11, PlaylistID: 3, TrackID: "t1", Title: "Song"},
	}
	server := newTestServer(t, testServerOpts{playlists: playlists})

	rr := doRequest(t, server, http.MethodPost, "/api/playlists/3/songs", map[string]string{
		"id":    "t1",
		"title": "Song",
	}, true)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if playlists.lastTrackID != "t1" || playlists.lastPlaylistID != 3 {
		t.Fatalf("unexpected add args: track=%q playlist=%d", playlists.lastTrackID, playlists.lastPlaylistID)
	}
}

func TestHandleRemoveSongNotFound(t *testing.T) {
	playlists := &stubPlaylistService{removeErr: store.ErrSongNotFound}
	server := newTestServer(t, testServerOpts{playlists: playlists})

	rr := doRequest(t, server, http.MethodDelete, "/api/playlists/3/songs/t1", nil, true)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleRemoveSongSuccess(t *testing.T) {
	playlists := &stubPlaylistService{}
	server := newTestServer(t, testServerOpts{playlists: playlists})

	rr := doRequest(t, server, http.MethodDelete, "/api/playlists/3/songs/t1", nil, true)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if playlists.lastTrackID != "t1" {
		t.Fatalf("expected track id 't1', got %q", playlists.lastTrackID)
	}
}

func TestHandleDeletePlaylistSuccess(t *testing.T) {
	playlists := &stubPlaylistService{}
	server := newTestServer(t, testServerOpts{playlists: playlists})

	rr := doRequest(t, server, http.MethodDelete, "/api/playlists/5", nil, true)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if playlists.lastPlaylistID != 5 {
		t.Fatalf("expected playlist id 5, got %d", playlists.lastPlaylistID)
	}
}

func TestHandleRecordHistorySuccess(t *testing.T) {
	history := &stubHistoryService{
		recorded: store.HistoryEntry{ID: 1, UserID: 42, TrackID: "t1", Title: "Song", Artist: "Artist"},
	}
	server := newTestServer(t, testServerOpts{history: history})

	rr := doRequest(t, server, http.MethodPost, "/api/history", map[string]string{
		"songId": "t1",
		"title":  "Song",
		"artist": "Artist",
	}, true)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if history.lastEntry.TrackID != "t1" {
		t.Fatalf("expected track id 't1', got %q", history.lastEntry.TrackID)
	}
}

func TestHandleRecordHistoryMissingFields(t *testing.T) {
	server := newTestServer(t, testServerOpts{})

	rr := doRequest(t, server, http.MethodPost, "/api/history", map[string]string{
		"songId": "t1",
	}, true)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleListHistoryUsesMaxLimit(t *testing.T) {
	history := &stubHistoryService{
		entries: []store.HistoryEntry{{ID: 2, TrackID: "t2"}, {ID: 1, TrackID: "t1"}},
	}
	server := newTestServer(t, testServerOpts{history: history})

	rr := doRequest(t, server, http.MethodGet, "/api/history", nil, true)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if history.lastLimit != store.MaxHistoryLimit {
		t.Fatalf("expected limit %d, got %d", store.MaxHistoryLimit, history.lastLimit)
	}
	var entries []store.HistoryEntry
	if err := json.NewDecoder(rr.Body).Decode(&entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != 2 {
		t.Fatalf("unexpected history payload: %#v", entries)
	}
}

func TestHandleRecommendationsSuccess(t *testing.T) {
	recs := &stubRecommendationService{
		recs: []recommendations.Recommendation{
			{Track: musicapi.Track{ID: "t1", Title: "Song", Artist: "Artist"}, Justification: "Matches your taste."},
		},
	}
	server := newTestServer(t, testServerOpts{recs: recs})

	rr := doRequest(t, server, http.MethodGet, "/api/recommendations", nil, true)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var payload []recommendations.Recommendation
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload) != 1 || payload[0].Justification != "Matches your taste." {
		t.Fatalf("unexpected recommendations payload: %#v", payload)
	}
}

func TestHandleRecommendationsGenerationFailure(t *testing.T) {
	recs := &stubRecommendationService{err: recommendations.ErrGenerationFailed}
	server := newTestServer(t, testServerOpts{recs: recs})

	rr := doRequest(t, server, http.MethodGet, "/api/recommendations", nil, true)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	server := newTestServer(t, testServerOpts{verifier: stubVerifier{err: errors.New("bad token")}})

	rr := doRequest(t, server, http.MethodGet, "/api/playlists", nil, true)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, testServerOpts{})

	rr := doRequest(t, server, http.MethodGet, "/api/health", nil, false)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}
