package events

import (
	"encoding/json"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderPlaced(t *testing.T) {
	placed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	o := domain.Order{
		ID:       "o1",
		OwnerID:  "u1",
		Items:    []domain.CartItem{{ProductID: "p1"}, {ProductID: "p2"}},
		Total:    decimal.NewFromInt(250),
		PlacedAt: placed,
	}

	evt := NewOrderPlaced(o, "cart")

	assert.Equal(t, TypeOrderPlaced, evt.Type)
	assert.Equal(t, "o1", evt.OrderID)
	assert.Equal(t, "u1", evt.UserID)
	assert.Equal(t, 2, evt.LineCount)
	assert.True(t, evt.Total.Equal(decimal.NewFromInt(250)))

	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total":250`)
}
