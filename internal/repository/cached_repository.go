package repository

import (
	"context"
	"errors"

	"github.com/gourl/sqids/internal/cache"
	"github.com/gourl/sqids/internal/metrics"
	"github.com/gourl/sqids/internal/models"
)

// CachedResourceRepository wraps a ResourceRepository with write-through
// caching. Cache failures never fail a request; the wrapped repository is
// the source of truth.
type CachedResourceRepository struct {
	repo  ResourceRepository
	cache *cache.ResourceCache
}

// NewCachedResourceRepository creates a new cached repository.
func NewCachedResourceRepository(repo ResourceRepository, resourceCache *cache.ResourceCache) *CachedResourceRepository {
	return &CachedResourceRepository{repo: repo, cache: resourceCache}
}

// Create stores the resource and then caches it.
func (c *CachedResourceRepository) Create(ctx context.Context, create *models.ResourceCreate) (*models.Resource, error) {
	res, err := c.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, res)
	return res, nil
}

// GetByID checks the cache first and falls back to the repository.
func (c *CachedResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	res, err := c.cache.Get(ctx, id)
	if err == nil {
		metrics.RecordCacheHit()
		return res, nil
	}
	if errors.Is(err, cache.ErrCacheMiss) {
		metrics.RecordCacheMiss()
	}

	res, err = c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, res)
	return res, nil
}

// Delete evicts the cache entry before removing the resource.
func (c *CachedResourceRepository) Delete(ctx context.Context, id int64) error {
	_ = c.cache.Delete(ctx, id)
	return c.repo.Delete(ctx, id)
}

// HealthCheck checks both cache and repository health.
func (c *CachedResourceRepository) HealthCheck(ctx context.Context) error {
	if err := c.cache.Ping(ctx); err != nil {
		return err
	}
	return c.repo.HealthCheck(ctx)
}
