package user

import (
	"context"

	"storefront/internal/domain"
)

// MutateFunc edits a locked user document in place.
type MutateFunc func(u *domain.User) error

// Repository persists and fetches user documents.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetBySessionToken(ctx context.Context, token string) (*domain.User, error)
	// SetSessionToken replaces the single active session; nil clears it.
	SetSessionToken(ctx context.Context, id string, token *string) error
	// Mutate loads the user under a row lock, applies fn and writes the document back.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.User, error)
}
