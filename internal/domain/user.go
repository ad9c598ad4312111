package domain

import "time"

const DefaultLocation = "Select Location"

// Address is an address-book entry. At most one per user has IsDefault set.
type Address struct {
	ID            string `json:"_id"`
	RecipientName string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	Line          string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"pincode,omitempty"`
	IsDefault     bool   `json:"isDefault"`
}

// CheckoutSession stashes a pending selection between the cart page and checkout page.
type CheckoutSession struct {
	Items     []CartItem `json:"items"`
	CreatedAt *time.Time `json:"createdAt"`
}

// User represents a registered account.
type User struct {
	ID               string           `json:"_id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone,omitempty"`
	PasswordHash     string           `json:"-"`
	SelectedLocation string           `json:"selectedLocation"`
	Addresses        []Address        `json:"addresses"`
	SessionToken     *string          `json:"-"`
	CheckoutSession  *CheckoutSession `json:"-"`
	CreatedAt        time.Time        `json:"createdAt"`
}
