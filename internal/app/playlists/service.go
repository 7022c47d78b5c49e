package playlists

import (
	"context"

	"soundhaven/internal/musicapi"
	"soundhaven/internal/store"
)

// Store captures the persistence needs for playlist workflows. Ownership and
// uniqueness are enforced by the store's conditional writes; this layer only
// coordinates.
type Store interface {
	CreatePlaylist(ctx context.Context, userID int64, name string, initial musicapi.Track) (store.PlaylistSummary, error)
	ListPlaylists(ctx context.Context, userID int64) ([]store.PlaylistSummary, error)
	GetPlaylist(ctx context.Context, userID, playlistID int64) (store.Playlist, error)
	AddSongToPlaylist(ctx context.Context, userID, playlistID int64, track musicapi.Track) (store.PlaylistSong, error)
	RemoveSongFromPlaylist(ctx context.Context, userID, playlistID int64, trackID string) error
	DeletePlaylist(ctx context.Context, userID, playlistID int64) error
}

// Service coordinates playlist-related operations.
type Service interface {
	Create(ctx context.Context, userID int64, name string, initial musicapi.Track) (store.PlaylistSummary, error)
	List(ctx context.Context, userID int64) ([]store.PlaylistSummary, error)
	Get(ctx context.Context, userID, playlistID int64) (store.Playlist, error)
	AddSong(ctx context.Context, userID, playlistID int64, track musicapi.Track) (store.PlaylistSong, error)
	RemoveSong(ctx context.Context, userID, playlistID int64, trackID string) error
	Delete(ctx context.Context, userID, playlistID int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, userID int64, name string, initial musicapi.Track) (store.PlaylistSummary, error) {
	if err := ctx.Err(); err != nil {
		return store.PlaylistSummary{}, err
	}
	return s.store.CreatePlaylist(ctx, userID, name, initial)
}

func (s *service) List(ctx context.Context, userID int64) ([]store.PlaylistSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylists(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, playlistID int64) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.GetPlaylist(ctx, userID, playlistID)
}

func (s *service) AddSong(ctx context.Context, userID, playlistID int64, track musicapi.Track) (store.PlaylistSong, error) {
	if err := ctx.Err(); err != nil {
		return store.PlaylistSong{}, err
	}
	return s.store.AddSongToPlaylist(ctx, userID, playlistID, track)
}

func (s *service) RemoveSong(ctx context.Context, userID, playlistID int64, trackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveSongFromPlaylist(ctx, userID, playlistID, trackID)
}

func (s *service) Delete(ctx context.Context, userID, playlistID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, userID, playlistID)
}
