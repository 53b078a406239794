package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gourl/sqids/internal/models"
	"github.com/gourl/sqids/pkg/sqids"
)

// MockResourceRepository is a mock implementation of repository.ResourceRepository.
type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) Create(ctx context.Context, create *models.ResourceCreate) (*models.Resource, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *MockResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *MockResourceRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockResourceRepository) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockCodecService is a mock implementation of CodecService.
type MockCodecService struct {
	mock.Mock
}

func (m *MockCodecService) Encode(numbers []uint64) (string, error) {
	args := m.Called(numbers)
	return args.String(0), args.Error(1)
}

func (m *MockCodecService) Decode(id string) []uint64 {
	return m.Called(id).Get(0).([]uint64)
}

func (m *MockCodecService) DecodeCanonical(id string) ([]uint64, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func newResourceService(t *testing.T, repo *MockResourceRepository) *ResourceServiceImpl {
	t.Helper()
	return NewResourceService(repo, newTestCodec(t, sqids.Options{}), nil)
}

func TestResourceService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResourceRepository)
	svc := newResourceService(t, repo)

	now := time.Now()
	repo.On("Create", ctx, &models.ResourceCreate{Name: "report", Target: "https://example.com"}).
		Return(&models.Resource{ID: 1, Name: "report", Target: "https://example.com", CreatedAt: now}, nil)

	res, err := svc.Create(ctx, CreateResourceRequest{Name: "report", Target: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Uk", res.Token)
	assert.Equal(t, int64(1), res.ID)
	repo.AssertExpectations(t)
}

func TestResourceService_CreateValidation(t *testing.T) {
	repo := new(MockResourceRepository)
	svc := newResourceService(t, repo)

	_, err := svc.Create(context.Background(), CreateResourceRequest{Name: ""})
	assert.ErrorIs(t, err, models.ErrEmptyName)

	_, err = svc.Create(context.Background(), CreateResourceRequest{Name: "x", Target: "javascript:alert(1)"})
	assert.ErrorIs(t, err, models.ErrInvalidTarget)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResourceService_CreateRepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResourceRepository)
	svc := newResourceService(t, repo)

	repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.Create(ctx, CreateResourceRequest{Name: "x"})
	assert.EqualError(t, err, "db down")
}

func TestResourceService_CreateUnencodableRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResourceRepository)
	codec := new(MockCodecService)
	svc := NewResourceService(repo, codec, nil)

	repo.On("Create", ctx, mock.Anything).Return(&models.Resource{ID: 9, Name: "x"}, nil)
	repo.On("Delete", ctx, int64(9)).Return(nil)
	codec.On("Encode", []uint64{9}).Return("", sqids.ErrMaxAttempts)

	_, err := svc.Create(ctx, CreateResourceRequest{Name: "x"})
	assert.ErrorIs(t, err, sqids.ErrMaxAttempts)
	repo.AssertExpectations(t)
}

func TestResourceService_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResourceRepository)
	svc := newResourceService(t, repo)

	repo.On("GetByID", ctx, int64(1)).Return(&models.Resource{ID: 1, Name: "report"}, nil)

	res, err := svc.Resolve(ctx, "Uk")
	require.NoError(t, err)
	assert.Equal(t, "report", res.Name)
	assert.Equal(t, "Uk", res.Token)
}

func TestResourceService_ResolveRejectsBadTokens(t *testing.T) {
	repo := new(MockResourceRepository)
	svc := newResourceService(t, repo)

	tokens := []string{
		"",       // no numbers
		"86Rf07", // three numbers
		"Uk!",    // foreign character
		"aho1e",  // blocked form of a valid number
		"eIkvoXH40Lmd",
	}
	for _, token := range tokens {
		_, err := svc.Resolve(context.Background(), token)
		assert.ErrorIs(t, err, models.ErrResourceNotFound, "token %q", token)
	}

	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestResourceService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResourceRepository)
	svc := newResourceService(t, repo)

	repo.On("Delete", ctx, int64(0)).Return(nil).Once()
	repo.On("Delete", ctx, int64(1)).Return(models.ErrResourceNotFound).Once()

	assert.NoError(t, svc.Delete(ctx, "bM"))
	assert.ErrorIs(t, svc.Delete(ctx, "Uk"), models.ErrResourceNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "not a token"), models.ErrResourceNotFound)
	repo.AssertExpectations(t)
}
