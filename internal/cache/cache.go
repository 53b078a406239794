// Package cache handles Redis caching operations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/gourl/sqids/internal/config"
	"github.com/gourl/sqids/internal/models"
	"github.com/gourl/sqids/pkg/logger"
)

// ErrCacheMiss is returned when a key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the interface for caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client and verifies connectivity.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Connect calls NewRedisCache until it succeeds or timeout elapses.
func Connect(ctx context.Context, cfg *config.RedisConfig, timeout time.Duration, log *logger.Logger) (*RedisCache, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = timeout
	if policy.MaxElapsedTime <= 0 {
		policy.MaxElapsedTime = 30 * time.Second
	}

	return backoff.RetryNotifyWithData(
		func() (*RedisCache, error) { return NewRedisCache(ctx, cfg) },
		backoff.WithContext(policy, ctx),
		func(err error, wait time.Duration) {
			log.Warn("redis not reachable, retrying", "error", err, "wait", wait.String())
		},
	)
}

// Get retrieves a value, returning ErrCacheMiss when the key is absent.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get failed: %w", err)
	}
	return val, nil
}

// Set stores a value with a TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Ping checks if the cache is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the cache connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// ResourceCache stores resources keyed by their numeric id. Tokens are not
// used as keys since they change with the codec configuration.
type ResourceCache struct {
	cache     Cache
	keyPrefix string
	ttl       time.Duration
}

// NewResourceCache creates a resource cache over any Cache.
func NewResourceCache(c Cache, keyPrefix string, ttl time.Duration) *ResourceCache {
	if keyPrefix == "" {
		keyPrefix = "resource:"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResourceCache{cache: c, keyPrefix: keyPrefix, ttl: ttl}
}

// cachedResource is the stored form; the token is recomputed on read.
type cachedResource struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

// Get returns the cached resource or ErrCacheMiss.
func (c *ResourceCache) Get(ctx context.Context, id int64) (*models.Resource, error) {
	data, err := c.cache.Get(ctx, c.key(id))
	if err != nil {
		return nil, err
	}

	var cached cachedResource
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached resource: %w", err)
	}

	return &models.Resource{
		ID:        cached.ID,
		Name:      cached.Name,
		Target:    cached.Target,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// Set stores a resource for the configured TTL.
func (c *ResourceCache) Set(ctx context.Context, r *models.Resource) error {
	data, err := json.Marshal(cachedResource{
		ID:        r.ID,
		Name:      r.Name,
		Target:    r.Target,
		CreatedAt: r.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal resource: %w", err)
	}
	return c.cache.Set(ctx, c.key(r.ID), data, c.ttl)
}

// Delete evicts a resource.
func (c *ResourceCache) Delete(ctx context.Context, id int64) error {
	return c.cache.Delete(ctx, c.key(id))
}

// Ping checks if the underlying cache is healthy.
func (c *ResourceCache) Ping(ctx context.Context) error {
	return c.cache.Ping(ctx)
}

func (c *ResourceCache) key(id int64) string {
	return c.keyPrefix + strconv.FormatInt(id, 10)
}
