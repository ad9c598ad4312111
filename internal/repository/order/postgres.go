package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const orderColumns = `id::text, user_id, items, total::text, delivery_address, payment_method, status, placed_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, l *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(l).Named("order_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.PlacedAt.IsZero() {
		o.PlacedAt = time.Now().UTC()
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPlaced
	}
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}
	var addrJSON []byte
	if o.DeliveryAddress != nil {
		if addrJSON, err = json.Marshal(o.DeliveryAddress); err != nil {
			return nil, err
		}
	}

	q := `
INSERT INTO orders (id, user_id, items, total, delivery_address, payment_method, status, placed_at)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)
RETURNING ` + orderColumns
	created, err := scanOrder(r.pool.QueryRow(ctx, q,
		o.ID,
		o.OwnerID,
		itemsJSON,
		o.Total.String(),
		addrJSON,
		o.PaymentMethod,
		o.Status,
		o.PlacedAt,
	))
	if err != nil {
		r.logger.Error("create order failed", zap.String("user_id", o.OwnerID), zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY placed_at DESC, id`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("list orders", zap.String("user_id", userID), zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrNotFound
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var itemsJSON, addrJSON []byte
	var total string
	if err := row.Scan(
		&o.ID,
		&o.OwnerID,
		&itemsJSON,
		&total,
		&addrJSON,
		&o.PaymentMethod,
		&o.Status,
		&o.PlacedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	parsed, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.Total = parsed
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, err
	}
	if len(addrJSON) > 0 {
		var addr domain.Address
		if err := json.Unmarshal(addrJSON, &addr); err != nil {
			return nil, err
		}
		o.DeliveryAddress = &addr
	}
	return &o, nil
}

func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
