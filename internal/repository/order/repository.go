package order

import (
	"context"

	"storefront/internal/domain"
)

// Repository is append-only: orders are created and deleted, never updated.
type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Delete(ctx context.Context, id string) error
}
