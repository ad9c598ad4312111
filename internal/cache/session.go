package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "storefront:session:"

// SessionCache maps an opaque session token to the owning user id.
type SessionCache interface {
	Set(ctx context.Context, token, userID string) error
	Get(ctx context.Context, token string) (string, bool, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessions keeps session tokens in Redis with a fixed TTL.
type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessions(client *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{client: client, ttl: ttl}
}

// Dial connects to addr and verifies it with a ping.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (s *RedisSessions) Set(ctx context.Context, token, userID string) error {
	return s.client.Set(ctx, sessionPrefix+token, userID, s.ttl).Err()
}

func (s *RedisSessions) Get(ctx context.Context, token string) (string, bool, error) {
	val, err := s.client.Get(ctx, sessionPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionPrefix+token).Err()
}

// Noop is used when Redis is not configured; every lookup misses.
type Noop struct{}

func (Noop) Set(context.Context, string, string) error { return nil }

func (Noop) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (Noop) Delete(context.Context, string) error { return nil }
