package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"soundhaven/internal/musicapi"
)

// DefaultCoverURL is used when a playlist's first song carries no artwork.
const DefaultCoverURL = "https://picsum.photos/id/1018/300/300"

// PlaylistSummary is the lightweight shape used in list views. It never
// carries the song list.
type PlaylistSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CoverURL  string    `json:"coverUrl"`
	SongCount int       `json:"songCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Playlist is the full shape with its ordered song list.
type Playlist struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	CoverURL  string           `json:"coverUrl"`
	SongCount int              `json:"songCount"`
	Songs     []musicapi.Track `json:"songs"`
	CreatedAt time.Time        `json:"createdAt"`
}

// PlaylistSong is one membership row: a track descriptor snapshotted at
// add time. It is never re-synced with the catalog.
type PlaylistSong struct {
	ID         int64     `json:"id"`
	PlaylistID int64     `json:"playlistId"`
	TrackID    string    `json:"songId"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Album      string    `json:"album,omitempty"`
	Duration   string    `json:"duration,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	AudioURL   string    `json:"audioUrl,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}

// CreatePlaylist persists a new playlist together with its first song as one
// transaction, so no reader ever observes an empty playlist.
func (s *Store) CreatePlaylist(ctx context.Context, userID int64, name string, initial musicapi.Track) (PlaylistSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return PlaylistSummary{}, fmt.Errorf("playlist name is required")
	}
	if initial.ID == "" || initial.Title == "" {
		return PlaylistSummary{}, fmt.Errorf("initial song must have an id and title")
	}

	cover := initial.ImageURL
	if cover == "" {
		cover = DefaultCoverURL
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PlaylistSummary{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	summary := PlaylistSummary{Name: name, CoverURL: cover, SongCount: 1}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO playlists (user_id, name, cover_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, userID, name, cover).Scan(&summary.ID, &summary.CreatedAt)
	if err != nil {
		return PlaylistSummary{}, fmt.Errorf("insert playlist: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, track_id, title, artist, album, duration, duration_seconds, image_url, audio_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, summary.ID, initial.ID, initial.Title, initial.Artist, nullIfEmpty(initial.Album),
		nullIfEmpty(initial.Duration), initial.DurationSeconds, nullIfEmpty(initial.ImageURL), nullIfEmpty(initial.AudioURL)); err != nil {
		return PlaylistSummary{}, fmt.Errorf("insert initial song: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return PlaylistSummary{}, fmt.Errorf("commit playlist create: %w", err)
	}
	tx = nil

	return summary, nil
}

// ListPlaylists returns the user's playlists newest-first, each annotated
// with a song count.
func (s *Store) ListPlaylists(ctx context.Context, userID int64) ([]PlaylistSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.cover_url, p.created_at, COUNT(ps.id)
		FROM playlists p
		LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id
		WHERE p.user_id = $1
		GROUP BY p.id, p.name, p.cover_url, p.created_at
		ORDER BY p.created_at DESC, p.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	summaries := make([]PlaylistSummary, 0)
	for rows.Next() {
		var p PlaylistSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.CoverURL, &p.CreatedAt, &p.SongCount); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		summaries = append(summaries, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return summaries, nil
}

// GetPlaylist returns a playlist with its songs if and only if it is owned
// by userID. Anything else is ErrPlaylistNotFound.
func (s *Store) GetPlaylist(ctx context.Context, userID, playlistID int64) (Playlist, error) {
	var playlist Playlist
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, cover_url, created_at
		FROM playlists
		WHERE id = $1 AND user_id = $2
	`, playlistID, userID).Scan(&playlist.ID, &playlist.Name, &playlist.CoverURL, &playlist.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return Playlist{}, fmt.Errorf("get playlist: %w", err)
	}

	songs, err := s.listPlaylistSongs(ctx, playlist.ID)
	if err != nil {
		return Playlist{}, err
	}
	playlist.Songs = songs
	playlist.SongCount = len(songs)
	return playlist, nil
}

// AddSongToPlaylist inserts a membership snapshot. Duplicate detection is a
// single conditional insert: ON CONFLICT DO NOTHING with zero rows affected
// means the (playlist, track) pair already exists, with no read-then-write
// race window.
func (s *Store) AddSongToPlaylist(ctx context.Context, userID, playlistID int64, track musicapi.Track) (PlaylistSong, error) {
	if track.ID == "" || track.Title == "" {
		return PlaylistSong{}, fmt.Errorf("song must have an id and title")
	}

	if err := s.checkPlaylistOwned(ctx, userID, playlistID); err != nil {
		return PlaylistSong{}, err
	}

	song := PlaylistSong{
		PlaylistID: playlistID,
		TrackID:    track.ID,
		Title:      track.Title,
		Artist:     track.Artist,
		Album:      track.Album,
		Duration:   track.Duration,
		ImageURL:   track.ImageURL,
		AudioURL:   track.AudioURL,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, track_id, title, artist, album, duration, duration_seconds, image_url, audio_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (playlist_id, track_id) DO NOTHING
		RETURNING id, added_at
	`, playlistID, track.ID, track.Title, track.Artist, nullIfEmpty(track.Album),
		nullIfEmpty(track.Duration), track.DurationSeconds, nullIfEmpty(track.ImageURL), nullIfEmpty(track.AudioURL)).
		Scan(&song.ID, &song.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PlaylistSong{}, ErrDuplicateSong
	}
	if err != nil {
		return PlaylistSong{}, fmt.Errorf("insert playlist song: %w", err)
	}

	return song, nil
}

// RemoveSongFromPlaylist deletes one membership. The delete itself is scoped
// by playlist id AND owner so ownership cannot change between check and
// mutation.
func (s *Store) RemoveSongFromPlaylist(ctx context.Context, userID, playlistID int64, trackID string) error {
	if err := s.checkPlaylistOwned(ctx, userID, playlistID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_songs ps
		USING playlists p
		WHERE ps.playlist_id = p.id
		  AND p.id = $1 AND p.user_id = $2
		  AND ps.track_id = $3
	`, playlistID, userID, trackID)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSongNotFound
	}
	return nil
}

// DeletePlaylist removes a playlist in one conditional delete. Memberships
// cascade at the schema level.
func (s *Store) DeletePlaylist(ctx context.Context, userID, playlistID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlists
		WHERE id = $1 AND user_id = $2
	`, playlistID, userID)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

func (s *Store) checkPlaylistOwned(ctx context.Context, userID, playlistID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1
		FROM playlists
		WHERE id = $1 AND user_id = $2
	`, playlistID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlaylistNotFound
	}
	if err != nil {
		return fmt.Errorf("check playlist ownership: %w", err)
	}
	return nil
}

func (s *Store) listPlaylistSongs(ctx context.Context, playlistID int64) ([]musicapi.Track, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT track_id, title, artist, COALESCE(album, ''), COALESCE(duration, ''), duration_seconds,
		       COALESCE(image_url, ''), COALESCE(audio_url, '')
		FROM playlist_songs
		WHERE playlist_id = $1
		ORDER BY added_at ASC, id ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	songs := make([]musicapi.Track, 0)
	for rows.Next() {
		var t musicapi.Track
		if err := rows.Scan(&t.ID, &t.Title, &t.Artist, &t.Album, &t.Duration, &t.DurationSeconds,
			&t.ImageURL, &t.AudioURL); err != nil {
			return nil, fmt.Errorf("scan playlist song: %w", err)
		}
		songs = append(songs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist songs: %w", err)
	}
	return songs, nil
}
