package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"mongo-user-service/internal/config"
	"mongo-user-service/pkg/logger"
)

// NewMongoClient creates a new MongoDB client, verifies connectivity with a
// ping and returns the client together with the configured database handle.
func NewMongoClient(cfg *config.Config, l *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	timeout := time.Duration(cfg.Mongo.ConnectTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Command monitor logs queries through zap
	monitor := logger.NewMongoMonitor(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.LogCommands)

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(timeout).
		SetMonitor(monitor)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	l.Info("mongodb connected successfully",
		zap.String("database", cfg.Mongo.Database),
		zap.Int("connect_timeout_seconds", cfg.Mongo.ConnectTimeoutSeconds),
	)

	return client, client.Database(cfg.Mongo.Database), nil
}

// CloseMongoClient disconnects the MongoDB client.
func CloseMongoClient(client *mongo.Client) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongodb: %w", err)
	}

	return nil
}
