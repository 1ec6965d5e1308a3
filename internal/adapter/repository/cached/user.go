package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"mongo-user-service/internal/adapter/cache"
	domain "mongo-user-service/internal/domain/user"
	"mongo-user-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository and warms the cache with the newly
// assigned record. Users never change after creation, so the warmed entry
// can only go stale by expiring.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created, err := r.dbRepo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, created); err != nil {
			r.log.Warn("failed to warm cache after create", zap.String("id", created.ID), zap.Error(err))
		}
	}

	return created, nil
}

// GetByID retrieves a user by ID using Cache-Aside pattern. Absence stays
// (nil, nil) and is never cached.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	// Try to get from cache first
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.String("id", id))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("user:%s", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, id)
			if err == nil && cachedUser != nil {
				r.log.Debug("user retrieved from cache after single-flight wait", zap.String("id", id))
				return cachedUser, nil
			}
		}

		// Only one request hits database
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// Store in cache for future requests
		if r.cache != nil && u != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
			}
		}

		return u, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}
