package di

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"mongo-user-service/cmd/api/infrastructure"
	"mongo-user-service/internal/adapter/cache"
	"mongo-user-service/internal/adapter/db/mongodb"
	ginhandler "mongo-user-service/internal/adapter/gin/handler"
	"mongo-user-service/internal/adapter/gin/middleware"
	"mongo-user-service/internal/adapter/repository/cached"
	"mongo-user-service/internal/config"
	"mongo-user-service/internal/usecase/user"
	redisclient "mongo-user-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	MongoClient *mongo.Client
	RedisClient *redisclient.Client
	UserUC      user.UserUsecase
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	client, db, err := infrastructure.NewMongoClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mongodb: %w", err)
	}

	// Initialize repository and make sure its unique indexes exist before
	// serving any request
	mongoRepo := mongodb.NewUserRepoMongo(db, l)

	idxCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Mongo.ConnectTimeoutSeconds)*time.Second)
	defer cancel()
	if err := mongoRepo.EnsureIndexes(idxCtx); err != nil {
		_ = infrastructure.CloseMongoClient(client)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	// Initialize Redis client (nil when disabled)
	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		_ = infrastructure.CloseMongoClient(client)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Wrap the repository with the cache layer when Redis is available
	var repo user.Repository = mongoRepo
	var redisConn *goredis.Client
	if rdb != nil {
		redisConn = rdb.Client
		userCache := cache.NewRedisUserCache(
			redisConn,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedUserRepository(mongoRepo, userCache, l)
	}

	// Initialize use case
	userUC := user.New(repo, l)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(
		redisConn,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	// Initialize Gin handler
	ginHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		MongoClient: client,
		RedisClient: rdb,
		UserUC:      userUC,
		RateLimiter: rateLimiter,
		GinHandler:  ginHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.MongoClient != nil {
		if err := infrastructure.CloseMongoClient(c.MongoClient); err != nil {
			errs = append(errs, fmt.Errorf("failed to close mongodb: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
