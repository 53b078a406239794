// Package repository handles data persistence.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gourl/sqids/internal/database"
	"github.com/gourl/sqids/internal/metrics"
	"github.com/gourl/sqids/internal/models"
)

// ResourceRepository defines the interface for resource persistence operations.
type ResourceRepository interface {
	// Create stores a new resource and returns it with its assigned ID.
	Create(ctx context.Context, create *models.ResourceCreate) (*models.Resource, error)

	// GetByID retrieves a resource by its ID.
	GetByID(ctx context.Context, id int64) (*models.Resource, error)

	// Delete removes a resource by its ID.
	Delete(ctx context.Context, id int64) error

	// HealthCheck verifies the repository is healthy.
	HealthCheck(ctx context.Context) error
}

// PostgresResourceRepository implements ResourceRepository using PostgreSQL.
type PostgresResourceRepository struct {
	pool *database.Pool
}

// NewPostgresResourceRepository creates a new PostgreSQL-backed repository.
func NewPostgresResourceRepository(pool *database.Pool) *PostgresResourceRepository {
	return &PostgresResourceRepository{pool: pool}
}

// Create inserts a resource. IDs come from the BIGSERIAL sequence and are
// never negative, so every stored resource has a token.
func (r *PostgresResourceRepository) Create(ctx context.Context, create *models.ResourceCreate) (*models.Resource, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}
	defer observe("create", time.Now())

	query := `
		INSERT INTO resources (name, target)
		VALUES ($1, $2)
		RETURNING id, name, target, created_at
	`

	var res models.Resource
	err := r.pool.QueryRow(ctx, query, create.Name, create.Target).Scan(
		&res.ID,
		&res.Name,
		&res.Target,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return &res, nil
}

// GetByID retrieves a resource by its ID.
func (r *PostgresResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	defer observe("get", time.Now())

	query := `
		SELECT id, name, target, created_at
		FROM resources
		WHERE id = $1
	`

	var res models.Resource
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&res.ID,
		&res.Name,
		&res.Target,
		&res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	return &res, nil
}

// Delete removes a resource by its ID.
func (r *PostgresResourceRepository) Delete(ctx context.Context, id int64) error {
	defer observe("delete", time.Now())

	result, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrResourceNotFound
	}

	return nil
}

// HealthCheck verifies the database connection.
func (r *PostgresResourceRepository) HealthCheck(ctx context.Context) error {
	return r.pool.HealthCheck(ctx)
}

func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}
