// Package cache provides a Redis-backed implementation of ports.Cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/storefront/internal/domain"
)

const (
	serviceName = "cache"

	defaultDialTimeout = 2 * time.Second
	defaultIOTimeout   = time.Second
)

// Config configures the Redis cache.
type Config struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix namespaces every key. Empty means no prefix.
	KeyPrefix string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// RedisCache implements ports.Cache and ports.OptionalChecker.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedis creates a cache client. No connection is made until first use.
func NewRedis(cfg Config) *RedisCache {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultIOTimeout,
		WriteTimeout: defaultIOTimeout,
	})

	return &RedisCache{
		client: client,
		prefix: cfg.KeyPrefix,
		logger: logger.With(slog.String("component", "cache.RedisCache")),
	}
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

// Get returns domain.ErrNotFound on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	if err != nil {
		return nil, domain.NewUnavailableError(serviceName, fmt.Sprintf("get %s: %v", key, err))
	}

	return val, nil
}

// Set stores value under key. A zero ttl keeps the entry until evicted.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("set %s: %v", key, err))
	}

	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("delete %s: %v", key, err))
	}

	return nil
}

// Name implements ports.HealthChecker.
func (c *RedisCache) Name() string {
	return serviceName
}

// Check pings Redis.
func (c *RedisCache) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Optional marks the cache as non-critical: the catalog still loads from
// the upstream when Redis is down.
func (c *RedisCache) Optional() bool {
	return true
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Warn("closing redis client", slog.Any("error", err))
		return err
	}

	return nil
}
