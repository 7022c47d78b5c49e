package history

import (
	"context"

	"soundhaven/internal/store"
)

// Store describes the persistence operations required by the history service.
type Store interface {
	InsertHistoryEntry(ctx context.Context, userID int64, entry store.NewHistoryEntry) (store.HistoryEntry, error)
	ListHistory(ctx context.Context, userID int64, limit int) ([]store.HistoryEntry, error)
}

// Service records and lists play events.
type Service interface {
	Record(ctx context.Context, userID int64, entry store.NewHistoryEntry) (store.HistoryEntry, error)
	List(ctx context.Context, userID int64, limit int) ([]store.HistoryEntry, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Record(ctx context.Context, userID int64, entry store.NewHistoryEntry) (store.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return store.HistoryEntry{}, err
	}
	return s.store.InsertHistoryEntry(ctx, userID, entry)
}

func (s *service) List(ctx context.Context, userID int64, limit int) ([]store.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListHistory(ctx, userID, limit)
}
