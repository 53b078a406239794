package repository

import (
	"context"
	"sync"
	"time"

	"github.com/gourl/sqids/internal/models"
)

// MemoryResourceRepository keeps resources in process memory. It is used
// when no database is configured.
type MemoryResourceRepository struct {
	mu        sync.RWMutex
	resources map[int64]models.Resource
	nextID    int64
	now       func() time.Time
}

// NewMemoryResourceRepository creates an empty repository whose IDs start at 1.
func NewMemoryResourceRepository() *MemoryResourceRepository {
	return &MemoryResourceRepository{
		resources: make(map[int64]models.Resource),
		nextID:    1,
		now:       time.Now,
	}
}

// Create stores a resource under the next free ID.
func (m *MemoryResourceRepository) Create(_ context.Context, create *models.ResourceCreate) (*models.Resource, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	res := models.Resource{
		ID:        m.nextID,
		Name:      create.Name,
		Target:    create.Target,
		CreatedAt: m.now().UTC(),
	}
	m.resources[res.ID] = res
	m.nextID++

	return &res, nil
}

// GetByID retrieves a copy of the stored resource.
func (m *MemoryResourceRepository) GetByID(_ context.Context, id int64) (*models.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res, ok := m.resources[id]
	if !ok {
		return nil, models.ErrResourceNotFound
	}
	return &res, nil
}

// Delete removes a resource. IDs are not reused.
func (m *MemoryResourceRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resources[id]; !ok {
		return models.ErrResourceNotFound
	}
	delete(m.resources, id)
	return nil
}

// HealthCheck always succeeds.
func (m *MemoryResourceRepository) HealthCheck(context.Context) error {
	return nil
}
