package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"storefront/internal/cache"
	"storefront/internal/domain"
	userrepo "storefront/internal/repository/user"

	"go.uber.org/zap"
)

// sessionManager keeps one active token per user. The user row is authoritative;
// the cache only saves a query on lookups.
type sessionManager struct {
	repo   userrepo.Repository
	cache  cache.SessionCache
	logger *zap.Logger
}

func newSessionManager(repo userrepo.Repository, c cache.SessionCache, l *zap.Logger) *sessionManager {
	return &sessionManager{repo: repo, cache: c, logger: l}
}

func (m *sessionManager) Issue(ctx context.Context, u *domain.User) (string, error) {
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.SetSessionToken(ctx, u.ID, &token)
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		if u.SessionToken != nil {
			m.forget(ctx, *u.SessionToken)
		}
		if err := m.cache.Set(ctx, token, u.ID); err != nil {
			m.logger.Warn("cache session failed", zap.String("user_id", u.ID), zap.Error(err))
		}
		u.SessionToken = &token
		return token, nil
	}
	return "", errors.New("token collision")
}

func (m *sessionManager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	if userID, ok, err := m.cache.Get(ctx, token); err != nil {
		m.logger.Warn("session cache lookup failed", zap.Error(err))
	} else if ok {
		u, err := m.repo.GetByID(ctx, userID)
		if err == nil && u.SessionToken != nil && *u.SessionToken == token {
			return u, nil
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		m.forget(ctx, token)
		return nil, domain.ErrUnauthorized
	}

	u, err := m.repo.GetBySessionToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if err := m.cache.Set(ctx, token, u.ID); err != nil {
		m.logger.Warn("cache session failed", zap.String("user_id", u.ID), zap.Error(err))
	}
	return u, nil
}

func (m *sessionManager) Revoke(ctx context.Context, userID, token string) error {
	if err := m.repo.SetSessionToken(ctx, userID, nil); err != nil {
		return err
	}
	m.forget(ctx, token)
	return nil
}

func (m *sessionManager) forget(ctx context.Context, token string) {
	if err := m.cache.Delete(ctx, token); err != nil {
		m.logger.Warn("evict session failed", zap.Error(err))
	}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
