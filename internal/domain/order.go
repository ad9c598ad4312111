package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPlaced = "placed"

// Order is an immutable purchase snapshot.
type Order struct {
	ID              string          `json:"_id"`
	OwnerID         string          `json:"userId"`
	Items           []CartItem      `json:"items"`
	Total           decimal.Decimal `json:"total"`
	PlacedAt        time.Time       `json:"date"`
	DeliveryAddress *Address        `json:"address,omitempty"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	Status          string          `json:"status"`
}
