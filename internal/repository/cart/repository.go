package cart

import (
	"context"

	"storefront/internal/domain"
)

// MutateFunc edits a locked cart in place.
type MutateFunc func(c *domain.Cart) error

type Repository interface {
	// GetByUser returns domain.ErrNotFound when the user never added anything.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// Mutate runs fn against the row-locked cart and persists the result in the same
	// transaction. With create set, a missing cart is created empty first; otherwise
	// a missing cart yields domain.ErrNotFound.
	Mutate(ctx context.Context, userID string, create bool, fn MutateFunc) (*domain.Cart, error)
}
