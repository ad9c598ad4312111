package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c SessionCache = Noop{}

	require.NoError(t, c.Set(ctx, "tok", "u1"))
	_, ok, err := c.Get(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "tok"))
}

func TestRedisSessions(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	ctx := context.Background()
	client, err := Dial(ctx, addr, "", 15)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sessions := NewRedisSessions(client, time.Minute)
	token := "test-" + time.Now().Format("150405.000000000")

	_, ok, err := sessions.Get(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, sessions.Set(ctx, token, "u1"))
	userID, ok, err := sessions.Get(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u1", userID)

	ttl, err := client.TTL(ctx, sessionPrefix+token).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, sessions.Delete(ctx, token))
	_, ok, err = sessions.Get(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}
