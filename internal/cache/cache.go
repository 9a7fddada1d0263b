// cache — реестр отозванных access-токенов (logout).
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations — минимальный контракт реестра отозванных jti.
type Revocations interface {
	// Revoke помечает jti отозванным на ttl (обычно ExpiresAt-now).
	// Неположительный ttl — no-op: токен и так уже истёк.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked сообщает, отозван ли jti.
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// Ping проверяет доступность реестра (/healthz).
	Ping(ctx context.Context) error
	// Close освобождает ресурсы.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "yanews:revoked:".
func NewRedisCache(ctx context.Context, redisURL, prefix string) (Revocations, error) {
	if prefix == "" {
		prefix = "yanews:revoked:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(jti string) string { return c.prefix + jti }

func (c *redisCache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	return c.rdb.Set(ctx, c.key(jti), "1", ttl).Err()
}

func (c *redisCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.key(jti)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (c *redisCache) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *redisCache) Close() error { return c.rdb.Close() }

// memoryCache — реестр в памяти процесса, когда Redis не настроен.
type memoryCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]time.Time
}

// NewMemoryCache создаёт реестр в памяти. Истёкшие записи вычищаются при обращении.
func NewMemoryCache() Revocations {
	return &memoryCache{now: time.Now, entries: make(map[string]time.Time)}
}

func (c *memoryCache) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[jti] = c.now().Add(ttl)

	return nil
}

func (c *memoryCache) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, exp := range c.entries {
		if !now.Before(exp) {
			delete(c.entries, k)
		}
	}

	_, ok := c.entries[jti]

	return ok, nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return ctx.Err() }

func (c *memoryCache) Close() error { return nil }
