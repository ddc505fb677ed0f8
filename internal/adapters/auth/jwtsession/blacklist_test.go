package jwtsession

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlacklist_RevokePrunesExpired(t *testing.T) {
	b := NewMemoryBlacklist()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Revoke(ctx, fmt.Sprintf("old-%d", i), time.Minute))
	}
	require.NoError(t, b.Revoke(ctx, "long", time.Hour))
	assert.Equal(t, 6, len(b.byJTI))

	// nadie vuelve a consultar los old-*; el próximo logout los barre
	now = now.Add(2 * time.Minute)
	require.NoError(t, b.Revoke(ctx, "new", time.Minute))
	assert.Equal(t, 2, len(b.byJTI))

	revoked, err := b.IsRevoked(ctx, "long")
	require.NoError(t, err)
	assert.True(t, revoked)
}

// Puerto 1 no escucha: cubre el camino de error sin levantar Redis.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNewRedisBlacklist_PingFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	b, err := NewRedisBlacklist(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Nil(t, b)
	assert.Contains(t, err.Error(), "redis blacklist: ping")
}

func TestRedisBlacklist_ErrorsSurface(t *testing.T) {
	b := NewRedisBlacklistWithClient(unreachableRedis())
	t.Cleanup(func() { _ = b.Close() })
	ctx := context.Background()

	err := b.Revoke(ctx, "jti-1", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis blacklist: set")

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.Error(t, err)
	assert.False(t, revoked)
}

func TestManager_VerifyFailsWhenBlacklistUnavailable(t *testing.T) {
	b := NewRedisBlacklistWithClient(unreachableRedis())
	t.Cleanup(func() { _ = b.Close() })

	m, err := NewManager(Config{Secret: "test-secret", TTL: time.Hour}, b)
	require.NoError(t, err)

	issued, err := m.Issue(Subject{UserID: "u-1"})
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), issued.Token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRevokedToken)
}
