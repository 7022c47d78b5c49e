package store

import (
	"context"
	"fmt"
	"time"
)

// MaxHistoryLimit caps how many entries a single read may return.
const MaxHistoryLimit = 50

// HistoryEntry records one play event. Track metadata is denormalised at
// write time and never mutated afterwards.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	TrackID    string    `json:"songId"`
	Title      string    `json:"songTitle"`
	Artist     string    `json:"songArtist"`
	Genre      *string   `json:"songGenre"`
	Mood       *string   `json:"songMood"`
	ListenedAt time.Time `json:"listenedAt"`
}

// NewHistoryEntry is the input shape for recording a play.
type NewHistoryEntry struct {
	TrackID string
	Title   string
	Artist  string
	Genre   *string
	Mood    *string
}

// InsertHistoryEntry appends one play event. Repeated plays of the same
// track are all recorded.
func (s *Store) InsertHistoryEntry(ctx context.Context, userID int64, entry NewHistoryEntry) (HistoryEntry, error) {
	if entry.TrackID == "" || entry.Title == "" || entry.Artist == "" {
		return HistoryEntry{}, fmt.Errorf("track id, title and artist are required")
	}

	record := HistoryEntry{
		UserID:  userID,
		TrackID: entry.TrackID,
		Title:   entry.Title,
		Artist:  entry.Artist,
		Genre:   entry.Genre,
		Mood:    entry.Mood,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO history_entries (user_id, track_id, title, artist, genre, mood)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, listened_at
	`, userID, entry.TrackID, entry.Title, entry.Artist, entry.Genre, entry.Mood).
		Scan(&record.ID, &record.ListenedAt)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("insert history entry: %w", err)
	}

	return record, nil
}

// ListHistory returns the user's most recent entries, newest first. The
// limit is clamped to MaxHistoryLimit.
func (s *Store) ListHistory(ctx context.Context, userID int64, limit int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, track_id, title, artist, genre, mood, listened_at
		FROM history_entries
		WHERE user_id = $1
		ORDER BY listened_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.TrackID, &e.Title, &e.Artist, &e.Genre, &e.Mood, &e.ListenedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}
