package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	created   []domain.Order
	listed    []domain.Order
	deleted   []string
	createErr error
	deleteErr error
}

func (s *stubRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	o.ID = "order-1"
	o.PlacedAt = time.Now().UTC()
	s.created = append(s.created, o)
	return &o, nil
}

func (s *stubRepo) GetByID(context.Context, string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRepo) ListByUser(context.Context, string) ([]domain.Order, error) {
	return s.listed, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCreate_SnapshotsItems(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)
	items := []domain.CartItem{{ProductID: "p1", Name: "Tea", UnitPrice: price("2.50"), Quantity: 2}}
	addr := &domain.Address{RecipientName: "Home"}

	o, err := svc.Create(context.Background(), CreateInput{OwnerID: "u1", Items: items, Total: price("5"), Address: addr, PaymentMethod: "cod"})
	require.NoError(t, err)

	items[0].Quantity = 9
	addr.RecipientName = "Changed"
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "Home", o.DeliveryAddress.RecipientName)
	assert.Equal(t, domain.OrderStatusPlaced, o.Status)
	assert.Equal(t, "cod", o.PaymentMethod)
}

func TestCreate_Validation(t *testing.T) {
	svc := New(&stubRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateInput{Items: []domain.CartItem{{Name: "x", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Create(context.Background(), CreateInput{OwnerID: "u1"})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestPlaceDirect_RecomputesTotal(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)
	clientTotal := price("1.00")

	o, err := svc.PlaceDirect(context.Background(), DirectInput{
		UserID: "u1",
		Items: []domain.CartItem{
			{ProductID: "p1", Name: "Tea", UnitPrice: price("2.50"), Quantity: 2},
			{ProductID: "p2", Name: "Cup", UnitPrice: price("0.99"), Quantity: 3},
		},
		Total: &clientTotal,
	})

	require.NoError(t, err)
	assert.True(t, price("7.97").Equal(o.Total), "got %s", o.Total)
	require.Len(t, repo.created, 1)
}

func TestPlaceDirect_Validation(t *testing.T) {
	svc := New(&stubRepo{}, nil)
	ctx := context.Background()

	cases := map[string]DirectInput{
		"missing user":   {Items: []domain.CartItem{{Name: "Tea", Quantity: 1}}},
		"no items":       {UserID: "u1"},
		"zero quantity":  {UserID: "u1", Items: []domain.CartItem{{Name: "Tea", Quantity: 0}}},
		"negative price": {UserID: "u1", Items: []domain.CartItem{{Name: "Tea", UnitPrice: price("-1"), Quantity: 1}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.PlaceDirect(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestPlaceDirect_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := New(&stubRepo{createErr: storeErr}, nil)

	_, err := svc.PlaceDirect(context.Background(), DirectInput{UserID: "u1", Items: []domain.CartItem{{Name: "Tea", Quantity: 1}}})

	assert.ErrorIs(t, err, storeErr)
}

func TestListByOwner_NeverNil(t *testing.T) {
	svc := New(&stubRepo{}, nil)

	orders, err := svc.ListByOwner(context.Background(), "u1")

	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestDelete(t *testing.T) {
	repo := &stubRepo{deleteErr: domain.ErrNotFound}
	svc := New(repo, nil)

	err := svc.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"missing"}, repo.deleted)
}
