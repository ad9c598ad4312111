package user

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
)

// SetCheckoutSession stashes the lines a user picked for the next checkout page.
func (s *Service) SetCheckoutSession(ctx context.Context, userID string, items []domain.CartItem) error {
	now := time.Now().UTC()
	_, err := s.repo.Mutate(ctx, userID, func(u *domain.User) error {
		u.CheckoutSession = &domain.CheckoutSession{Items: domain.CloneItems(items), CreatedAt: &now}
		return nil
	})
	return err
}

// GetCheckoutSession returns the stashed selection, or an empty one.
func (s *Service) GetCheckoutSession(ctx context.Context, userID string) (domain.CheckoutSession, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	if u.CheckoutSession == nil {
		return domain.CheckoutSession{Items: []domain.CartItem{}}, nil
	}
	return *u.CheckoutSession, nil
}

// ClearCheckoutSession drops the stash. Unknown users are ignored.
func (s *Service) ClearCheckoutSession(ctx context.Context, userID string) error {
	_, err := s.repo.Mutate(ctx, userID, func(u *domain.User) error {
		u.CheckoutSession = &domain.CheckoutSession{Items: []domain.CartItem{}}
		return nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
