package user

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

// ErrAddressNotFound is returned when an address id is not in the user's book.
var ErrAddressNotFound = fmt.Errorf("address %w", domain.ErrNotFound)

// AddressInput mirrors incoming address payloads.
type AddressInput struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
	IsDefault bool   `json:"isDefault"`
}

// ToAddress validates the input and builds an address with a fresh id.
func (in AddressInput) ToAddress() (domain.Address, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Address{}, fmt.Errorf("%w: address name required", domain.ErrValidation)
	}
	phone := strings.TrimSpace(in.Phone)
	if err := validatePhone(phone); err != nil {
		return domain.Address{}, err
	}
	return domain.Address{
		ID:            uuid.NewString(),
		RecipientName: name,
		Phone:         phone,
		Line:          strings.TrimSpace(in.Address),
		City:          strings.TrimSpace(in.City),
		PostalCode:    strings.TrimSpace(in.Pincode),
		IsDefault:     in.IsDefault,
	}, nil
}

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Addresses == nil {
		return []domain.Address{}, nil
	}
	return u.Addresses, nil
}

// AddAddress appends an address. A new default clears the flag on every other entry.
func (s *Service) AddAddress(ctx context.Context, userID string, in AddressInput) ([]domain.Address, error) {
	addr, err := in.ToAddress()
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Mutate(ctx, userID, func(u *domain.User) error {
		u.Addresses = appendAddress(u.Addresses, addr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

// UpdateAddress replaces the fields of an existing address, keeping its id.
func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, in AddressInput) ([]domain.Address, error) {
	addr, err := in.ToAddress()
	if err != nil {
		return nil, err
	}
	addr.ID = addressID
	u, err := s.repo.Mutate(ctx, userID, func(u *domain.User) error {
		idx := findAddress(u.Addresses, addressID)
		if idx < 0 {
			return ErrAddressNotFound
		}
		if addr.IsDefault {
			clearDefault(u.Addresses)
		}
		u.Addresses[idx] = addr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error) {
	u, err := s.repo.Mutate(ctx, userID, func(u *domain.User) error {
		idx := findAddress(u.Addresses, addressID)
		if idx < 0 {
			return ErrAddressNotFound
		}
		u.Addresses = append(u.Addresses[:idx], u.Addresses[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

// SaveDeliveryAddress stores an address used at checkout in the address book.
// An address whose id is already in the book replaces that entry.
func (s *Service) SaveDeliveryAddress(ctx context.Context, userID string, addr domain.Address) error {
	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}
	_, err := s.repo.Mutate(ctx, userID, func(u *domain.User) error {
		idx := findAddress(u.Addresses, addr.ID)
		if idx < 0 {
			u.Addresses = appendAddress(u.Addresses, addr)
			return nil
		}
		if addr.IsDefault {
			clearDefault(u.Addresses)
		}
		u.Addresses[idx] = addr
		return nil
	})
	return err
}

func appendAddress(book []domain.Address, addr domain.Address) []domain.Address {
	if addr.IsDefault {
		clearDefault(book)
	}
	return append(book, addr)
}

func clearDefault(book []domain.Address) {
	for i := range book {
		book[i].IsDefault = false
	}
}

func findAddress(book []domain.Address, id string) int {
	for i, a := range book {
		if a.ID == id {
			return i
		}
	}
	return -1
}
