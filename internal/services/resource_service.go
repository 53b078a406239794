package services

import (
	"context"
	"errors"
	"math"

	"github.com/gourl/sqids/internal/metrics"
	"github.com/gourl/sqids/internal/models"
	"github.com/gourl/sqids/internal/repository"
	"github.com/gourl/sqids/pkg/logger"
)

// CreateResourceRequest represents the input for registering a resource.
type CreateResourceRequest struct {
	Name   string
	Target string
}

// ResourceService defines the resource registry operations. Resources are
// addressed by token only; numeric IDs stay internal.
type ResourceService interface {
	Create(ctx context.Context, req CreateResourceRequest) (*models.Resource, error)
	Resolve(ctx context.Context, token string) (*models.Resource, error)
	Delete(ctx context.Context, token string) error
}

// ResourceServiceImpl implements ResourceService.
type ResourceServiceImpl struct {
	repo  repository.ResourceRepository
	codec CodecService
	log   *logger.Logger
}

// NewResourceService creates a new ResourceService.
func NewResourceService(repo repository.ResourceRepository, codec CodecService, log *logger.Logger) *ResourceServiceImpl {
	if log == nil {
		log = logger.Nop()
	}
	return &ResourceServiceImpl{repo: repo, codec: codec, log: log}
}

// Create stores a resource and assigns its token.
func (s *ResourceServiceImpl) Create(ctx context.Context, req CreateResourceRequest) (*models.Resource, error) {
	create := &models.ResourceCreate{Name: req.Name, Target: req.Target}
	if err := create.Validate(); err != nil {
		return nil, err
	}

	res, err := s.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenFor(res.ID)
	if err != nil {
		// Leave no resource behind that cannot be addressed.
		if delErr := s.repo.Delete(ctx, res.ID); delErr != nil {
			s.log.Error("failed to remove unaddressable resource", "id", res.ID, "error", delErr)
		}
		return nil, err
	}
	res.Token = token

	metrics.RecordResourceCreated()
	s.log.Info("resource created", "token", token, "name", res.Name)
	return res, nil
}

// Resolve looks up the resource a token refers to.
func (s *ResourceServiceImpl) Resolve(ctx context.Context, token string) (*models.Resource, error) {
	id, err := s.idFor(token)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res.Token = token
	return res, nil
}

// Delete removes the resource a token refers to.
func (s *ResourceServiceImpl) Delete(ctx context.Context, token string) error {
	id, err := s.idFor(token)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("resource deleted", "token", token)
	return nil
}

func (s *ResourceServiceImpl) tokenFor(id int64) (string, error) {
	if id < 0 {
		return "", errors.New("resource id must not be negative")
	}
	return s.codec.Encode([]uint64{uint64(id)})
}

// idFor maps a token to an ID. Anything other than a canonical single-number
// token is reported as not found.
func (s *ResourceServiceImpl) idFor(token string) (int64, error) {
	numbers, err := s.codec.DecodeCanonical(token)
	if err != nil || len(numbers) != 1 || numbers[0] > math.MaxInt64 {
		return 0, models.ErrResourceNotFound
	}
	return int64(numbers[0]), nil
}
