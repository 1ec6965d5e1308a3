package infrastructure

import (
	"fmt"

	"go.uber.org/zap"

	"mongo-user-service/internal/config"
	redisclient "mongo-user-service/pkg/redis"
)

// NewRedisClient creates a new Redis client with configuration. Returns nil
// when Redis is disabled; the service then runs without the cache layer.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.Redis.Enabled {
		l.Info("redis disabled, running without cache")
		return nil, nil
	}

	redisConfig := redisclient.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}

	rdb, err := redisclient.NewClient(redisConfig, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
