package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Account is the demo login created by Apply.
type Account struct {
	Name     string
	Email    string
	Password string
}

var DemoAccount = Account{
	Name:     "Demo Shopper",
	Email:    "demo@storefront.local",
	Password: "demo1234",
}

var demoCart = []domain.CartItem{
	{
		ProductID: "demo-shirt",
		Name:      "Demo T-Shirt",
		UnitPrice: decimal.RequireFromString("19.99"),
		ImageRef:  "/img/demo-shirt.png",
		Quantity:  2,
	},
	{
		ProductID: "demo-mug",
		Name:      "Demo Mug",
		UnitPrice: decimal.RequireFromString("12.99"),
		ImageRef:  "/img/demo-mug.png",
		Quantity:  1,
	},
}

// Apply inserts a demo account with a filled cart for manual testing. It is idempotent
// via ON CONFLICT and returns the demo user's id.
func Apply(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	userID, err := ensureUser(ctx, pool, DemoAccount)
	if err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}
	if err := upsertCart(ctx, pool, userID, demoCart); err != nil {
		return "", fmt.Errorf("upsert cart: %w", err)
	}
	return userID, nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, a Account) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	const q = `
INSERT INTO users (name, email, password_hash, selected_location)
VALUES ($1, $2, $3, $4)
ON CONFLICT ((lower(email))) DO UPDATE
SET name = EXCLUDED.name,
    password_hash = EXCLUDED.password_hash
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, a.Name, a.Email, string(hash), domain.DefaultLocation).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertCart(ctx context.Context, pool *pgxpool.Pool, userID string, items []domain.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO carts (user_id, items, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (user_id) DO UPDATE
SET items = EXCLUDED.items,
    updated_at = EXCLUDED.updated_at
`
	_, err = pool.Exec(ctx, q, userID, string(raw))
	return err
}
