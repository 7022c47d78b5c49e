package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

var (
	// ErrUserExists signals the email is already registered.
	ErrUserExists = errors.New("email already registered")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPlaylistNotFound covers both a missing playlist and a playlist
	// owned by someone else. The two are deliberately indistinguishable.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrDuplicateSong signals the track is already in the playlist.
	ErrDuplicateSong = errors.New("song already in playlist")
	// ErrSongNotFound signals the membership to remove does not exist.
	ErrSongNotFound = errors.New("song not found in playlist")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema applies the table layout. Statements are idempotent so this
// is safe to run at every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// isUniqueViolation recognises unique-constraint errors from either Postgres
// driver. The main binary registers pgx; the pq branch keeps the store usable
// with handles opened on lib/pq, the codebase's other linked driver.
func isUniqueViolation(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
