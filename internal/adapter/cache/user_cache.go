package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "mongo-user-service/internal/domain/user"
)

// UserCache defines the interface for user caching operations. Users are
// immutable once created, so there is no invalidation surface.
type UserCache interface {
	// Get retrieves a user from cache by ID.
	// Returns nil if user is not found in cache.
	Get(ctx context.Context, id string) (*domain.User, error)

	// Set stores a user in cache with the configured TTL.
	Set(ctx context.Context, user *domain.User) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) UserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cacheKey generates a Redis key for a user ID.
func (c *RedisUserCache) cacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, id string) (*domain.User, error) {
	key := c.cacheKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		// Cache miss - not an error
		c.log.Debug("cache miss", zap.String("user_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		c.log.Error("failed to unmarshal cached user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.String("user_id", id))
	return &user, nil
}

// Set stores a user in Redis cache with TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("cannot cache nil user")
	}

	key := c.cacheKey(user.ID)

	data, err := json.Marshal(user)
	if err != nil {
		c.log.Error("failed to marshal user for cache", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached user", zap.String("user_id", user.ID), zap.Duration("ttl", c.ttl))
	return nil
}
