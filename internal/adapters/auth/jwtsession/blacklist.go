package jwtsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist guarda los jti revocados (logout) hasta que el token expire.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryBlacklist sirve para dev/tests o una sola instancia.
type MemoryBlacklist struct {
	mu    sync.Mutex
	byJTI map[string]time.Time
	now   func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{
		byJTI: make(map[string]time.Time),
		now:   time.Now,
	}
}

// Revoke también purga los vencidos: un jti revocado casi nunca se vuelve a consultar.
func (b *MemoryBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, exp := range b.byJTI {
		if now.After(exp) {
			delete(b.byJTI, id)
		}
	}
	b.byJTI[jti] = now.Add(ttl)
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.byJTI[jti]
	if !ok {
		return false, nil
	}
	if b.now().After(exp) {
		delete(b.byJTI, jti)
		return false, nil
	}
	return true, nil
}

// RedisBlacklist comparte las revocaciones entre instancias.
type RedisBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisBlacklist(ctx context.Context, cfg RedisConfig) (*RedisBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis blacklist: ping: %w", err)
	}

	return NewRedisBlacklistWithClient(client), nil
}

func NewRedisBlacklistWithClient(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client, keyPrefix: "session:revoked:"}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis blacklist: set: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis blacklist: exists: %w", err)
	}
	return n > 0, nil
}

func (b *RedisBlacklist) Close() error {
	return b.client.Close()
}

var (
	_ Blacklist = (*MemoryBlacklist)(nil)
	_ Blacklist = (*RedisBlacklist)(nil)
)
