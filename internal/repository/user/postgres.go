package user

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const userColumns = `id::text, name, email, phone, password_hash, selected_location, addresses,
       session_token, checkout_session, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, l *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(l).Named("user_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	addrJSON, err := json.Marshal(nonNilAddresses(u.Addresses))
	if err != nil {
		return nil, err
	}
	location := u.SelectedLocation
	if location == "" {
		location = domain.DefaultLocation
	}

	q := `
INSERT INTO users (name, email, phone, password_hash, selected_location, addresses)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q,
		u.Name,
		strings.ToLower(u.Email),
		u.Phone,
		u.PasswordHash,
		location,
		addrJSON,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE session_token = $1 LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, token))
}

func (r *postgresRepo) SetSessionToken(ctx context.Context, id string, token *string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET session_token = $1 WHERE id = $2`, token, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	u, err := r.scanUser(tx.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := fn(u); err != nil {
		return nil, err
	}

	addrJSON, err := json.Marshal(nonNilAddresses(u.Addresses))
	if err != nil {
		return nil, err
	}
	var sessionJSON []byte
	if u.CheckoutSession != nil {
		if sessionJSON, err = json.Marshal(u.CheckoutSession); err != nil {
			return nil, err
		}
	}

	const update = `
UPDATE users
SET name = $1, email = $2, phone = $3, password_hash = $4, selected_location = $5,
    addresses = $6, checkout_session = $7
WHERE id = $8
`
	if _, err := tx.Exec(ctx, update,
		u.Name,
		strings.ToLower(u.Email),
		u.Phone,
		u.PasswordHash,
		u.SelectedLocation,
		addrJSON,
		sessionJSON,
		u.ID,
	); err != nil {
		r.logger.Warn("update user failed", zap.String("user_id", id), zap.Error(err))
		return nil, mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var addrJSON, sessionJSON []byte
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.SelectedLocation,
		&addrJSON,
		&u.SessionToken,
		&sessionJSON,
		&u.CreatedAt,
	)
	if err != nil {
		mapped := mapError(err)
		if !errors.Is(mapped, domain.ErrNotFound) && !errors.Is(mapped, domain.ErrAlreadyExists) {
			r.logger.Error("scan user failed", zap.Error(err))
		}
		return nil, mapped
	}
	if len(addrJSON) > 0 {
		if err := json.Unmarshal(addrJSON, &u.Addresses); err != nil {
			r.logger.Error("decode addresses failed", zap.String("user_id", u.ID), zap.Error(err))
			return nil, err
		}
	}
	if len(sessionJSON) > 0 {
		var session domain.CheckoutSession
		if err := json.Unmarshal(sessionJSON, &session); err != nil {
			r.logger.Error("decode checkout session failed", zap.String("user_id", u.ID), zap.Error(err))
			return nil, err
		}
		u.CheckoutSession = &session
	}
	return &u, nil
}

// mapError folds driver errors into domain sentinels. A malformed uuid can never match a row.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrAlreadyExists
		case "22P02":
			return domain.ErrNotFound
		}
	}
	return err
}

func nonNilAddresses(in []domain.Address) []domain.Address {
	if in == nil {
		return []domain.Address{}
	}
	return in
}
