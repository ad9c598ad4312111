package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, matching what storefront clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// CartItem is one product line. Orders embed copies of it.
type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageRef  string          `json:"img,omitempty"`
	Quantity  int             `json:"qty"`
}

// LineTotal returns unit price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	OwnerID      string     `json:"userId"`
	Items        []CartItem `json:"items"`
	LastModified time.Time  `json:"updatedAt"`
}

// Total sums every line of the cart.
func (c Cart) Total() decimal.Decimal {
	return SumItems(c.Items)
}

// Find returns the index of the line for productID, or -1.
func (c Cart) Find(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// SumItems computes Σ(unitPrice × quantity).
func SumItems(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CloneItems copies lines by value so later cart edits never leak into a snapshot.
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
