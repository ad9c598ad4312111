package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT user_id, items, updated_at
FROM carts
WHERE user_id = $1
`
	return scanCart(r.pool.QueryRow(ctx, q, userID))
}

func (r *postgresRepo) Mutate(ctx context.Context, userID string, create bool, fn MutateFunc) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if create {
		if _, err := tx.Exec(ctx, `
INSERT INTO carts (user_id, items, updated_at)
VALUES ($1, '[]'::jsonb, now())
ON CONFLICT (user_id) DO NOTHING
`, userID); err != nil {
			return nil, err
		}
	}

	cart, err := scanCart(tx.QueryRow(ctx, `
SELECT user_id, items, updated_at
FROM carts
WHERE user_id = $1
FOR UPDATE
`, userID))
	if err != nil {
		return nil, err
	}

	if err := fn(cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	cart.LastModified = time.Now().UTC()

	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
UPDATE carts
SET items = $1, updated_at = $2
WHERE user_id = $3
`, itemsJSON, cart.LastModified, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return cart, nil
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	var itemsJSON []byte
	if err := row.Scan(&cart.OwnerID, &itemsJSON, &cart.LastModified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
			return nil, err
		}
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}
