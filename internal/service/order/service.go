package order

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/logger"
	orderrepo "storefront/internal/repository/order"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// Service records orders. Orders are immutable once created.
type Service struct {
	repo   orderRepo
	logger *zap.Logger
}

func New(repo orderrepo.Repository, l *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.OrNop(l).Named("order_service")}
}

// CreateInput is an order ready to be persisted with a precomputed total.
type CreateInput struct {
	OwnerID       string
	Items         []domain.CartItem
	Total         decimal.Decimal
	Address       *domain.Address
	PaymentMethod string
}

// Create persists an order. Items are copied so later cart edits cannot reach the order.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if strings.TrimSpace(in.OwnerID) == "" {
		return nil, fmt.Errorf("%w: userId required", domain.ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	var addr *domain.Address
	if in.Address != nil {
		a := *in.Address
		addr = &a
	}
	return s.repo.Create(ctx, domain.Order{
		OwnerID:         in.OwnerID,
		Items:           domain.CloneItems(in.Items),
		Total:           in.Total,
		DeliveryAddress: addr,
		PaymentMethod:   in.PaymentMethod,
		Status:          domain.OrderStatusPlaced,
	})
}

// DirectInput is the legacy order payload, where the client supplies every line.
type DirectInput struct {
	UserID        string            `json:"userId"`
	Items         []domain.CartItem `json:"items"`
	Total         *decimal.Decimal  `json:"total"`
	Address       *domain.Address   `json:"address"`
	PaymentMethod string            `json:"paymentMethod"`
}

// PlaceDirect stores a client-assembled order. The total is always recomputed from the items.
func (s *Service) PlaceDirect(ctx context.Context, in DirectInput) (*domain.Order, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, fmt.Errorf("%w: userId required", domain.ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrValidation)
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
		}
	}
	total := domain.SumItems(in.Items)
	if in.Total != nil && !in.Total.Equal(total) {
		s.logger.Warn("client total ignored",
			zap.String("user_id", in.UserID),
			zap.String("client_total", in.Total.StringFixed(2)),
			zap.String("total", total.StringFixed(2)),
		)
	}
	return s.Create(ctx, CreateInput{
		OwnerID:       in.UserID,
		Items:         in.Items,
		Total:         total,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
	})
}

// ListByOwner returns the user's orders, newest first.
func (s *Service) ListByOwner(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
