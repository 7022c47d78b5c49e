package users

import (
	"context"

	"soundhaven/internal/store"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, email, password string, name *string) (store.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (store.User, error)
}

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// Service exposes account workflows.
type Service interface {
	Register(ctx context.Context, email, password string, name *string) (store.User, error)
	Login(ctx context.Context, email, password string) (string, store.User, error)
}

type service struct {
	store  Store
	tokens TokenIssuer
}

// New wires a Service backed by the provided Store and token issuer.
func New(store Store, tokens TokenIssuer) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Register(ctx context.Context, email, password string, name *string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.CreateUser(ctx, email, password, name)
}

func (s *service) Login(ctx context.Context, email, password string) (string, store.User, error) {
	if err := ctx.Err(); err != nil {
		return "", store.User{}, err
	}

	user, err := s.store.AuthenticateUser(ctx, email, password)
	if err != nil {
		return "", store.User{}, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", store.User{}, err
	}
	return token, user, nil
}
