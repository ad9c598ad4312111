package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"

	"github.com/shopspring/decimal"
)

var (
	ErrCartNotFound = fmt.Errorf("cart %w", domain.ErrNotFound)
	ErrItemNotFound = fmt.Errorf("item %w", domain.ErrNotFound)
)

type Service struct {
	repo cartRepo
}

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Mutate(ctx context.Context, userID string, create bool, fn cartrepo.MutateFunc) (*domain.Cart, error)
}

func New(repo cartrepo.Repository) *Service {
	return &Service{repo: repo}
}

type AddItemInput struct {
	UserID    string          `json:"userId"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Img       string          `json:"img"`
}

// Get returns the user's cart, or an empty one if nothing was ever added.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Cart{OwnerID: userID, Items: []domain.CartItem{}}, nil
	}
	return cart, err
}

// AddItem appends a line with quantity 1, or bumps the quantity of the line with the same productId.
func (s *Service) AddItem(ctx context.Context, in AddItemInput) (*domain.Cart, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId required", domain.ErrValidation)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrValidation)
	}

	return s.repo.Mutate(ctx, userID, true, func(c *domain.Cart) error {
		if idx := c.Find(productID); idx >= 0 {
			c.Items[idx].Quantity++
			return nil
		}
		c.Items = append(c.Items, domain.CartItem{
			ProductID: productID,
			Name:      name,
			UnitPrice: in.Price,
			ImageRef:  in.Img,
			Quantity:  1,
		})
		return nil
	})
}

// SetQuantity sets a line's quantity, never below 1.
func (s *Service) SetQuantity(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId required", domain.ErrValidation)
	}
	if qty < 1 {
		qty = 1
	}
	cart, err := s.repo.Mutate(ctx, userID, false, func(c *domain.Cart) error {
		idx := c.Find(productID)
		if idx < 0 {
			return ErrItemNotFound
		}
		c.Items[idx].Quantity = qty
		return nil
	})
	return cart, cartNotFound(err)
}

// RemoveItem drops the line for productID. A missing line is not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId required", domain.ErrValidation)
	}
	cart, err := s.repo.Mutate(ctx, userID, false, func(c *domain.Cart) error {
		c.Items = without(c.Items, map[string]struct{}{productID: {}})
		return nil
	})
	return cart, cartNotFound(err)
}

// Clear empties the cart. The cart document itself is kept.
func (s *Service) Clear(ctx context.Context, userID string) error {
	_, err := s.repo.Mutate(ctx, userID, false, func(c *domain.Cart) error {
		c.Items = []domain.CartItem{}
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// RemoveLines drops every line whose productId is listed. A missing cart is left alone.
func (s *Service) RemoveLines(ctx context.Context, userID string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		drop[id] = struct{}{}
	}
	_, err := s.repo.Mutate(ctx, userID, false, func(c *domain.Cart) error {
		c.Items = without(c.Items, drop)
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func without(items []domain.CartItem, drop map[string]struct{}) []domain.CartItem {
	kept := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if _, ok := drop[item.ProductID]; ok {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func cartNotFound(err error) error {
	if err == nil || errors.Is(err, ErrItemNotFound) {
		return err
	}
	if errors.Is(err, domain.ErrNotFound) {
		return ErrCartNotFound
	}
	return err
}
