package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mongo-user-service/internal/adapter/cache"
	domain "mongo-user-service/internal/domain/user"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// setupCachedRepo wires the decorator around a mock repository and a real
// miniredis-backed cache.
func setupCachedRepo(t *testing.T) (*CachedUserRepository, *MockRepository, cache.UserCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	logger := zaptest.NewLogger(t)
	userCache := cache.NewRedisUserCache(client, 5*time.Minute, logger)
	mockRepo := new(MockRepository)

	repo := NewCachedUserRepository(mockRepo, userCache, logger).(*CachedUserRepository)
	return repo, mockRepo, userCache
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:        "a1b2c3d4e5f60718",
		UserIndex: 7,
		Name:      "John Doe",
		Email:     "john@example.com",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCachedUserRepository_GetByID_PopulatesCache(t *testing.T) {
	repo, mockRepo, _ := setupCachedRepo(t)
	ctx := context.Background()
	u := sampleUser()

	// First lookup hits the database, second is served from cache
	mockRepo.On("GetByID", ctx, u.ID).Return(u, nil).Once()

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Name, got.Name)

	mockRepo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestCachedUserRepository_GetByID_MissNotCached(t *testing.T) {
	repo, mockRepo, _ := setupCachedRepo(t)
	ctx := context.Background()

	// Every lookup of an absent user goes to the database
	mockRepo.On("GetByID", ctx, "does-not-exist").Return(nil, nil).Twice()

	got, err := repo.GetByID(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByID(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)

	mockRepo.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestCachedUserRepository_GetByID_DBError(t *testing.T) {
	repo, mockRepo, _ := setupCachedRepo(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "a1b2c3d4e5f60718").
		Return(nil, errors.New("connection reset")).Once()

	got, err := repo.GetByID(ctx, "a1b2c3d4e5f60718")
	require.Error(t, err)
	assert.Nil(t, got)
}

func TestCachedUserRepository_Create_WarmsCache(t *testing.T) {
	repo, mockRepo, userCache := setupCachedRepo(t)
	ctx := context.Background()
	u := sampleUser()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(u, nil).Once()

	created, err := repo.Create(ctx, &domain.User{Name: u.Name, Email: u.Email})
	require.NoError(t, err)
	require.NotNil(t, created)

	// The freshly created record is already cached
	cached, err := userCache.Get(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, u.UserIndex, cached.UserIndex)

	mockRepo.AssertExpectations(t)
}

func TestCachedUserRepository_NilCacheDelegates(t *testing.T) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	repo := NewCachedUserRepository(mockRepo, nil, logger)
	ctx := context.Background()
	u := sampleUser()

	mockRepo.On("GetByID", ctx, u.ID).Return(u, nil).Twice()

	for i := 0; i < 2; i++ {
		got, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
	}

	// With caching disabled every call reaches the database
	mockRepo.AssertNumberOfCalls(t, "GetByID", 2)
}
