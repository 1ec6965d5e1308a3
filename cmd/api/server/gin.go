package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "mongo-user-service/internal/adapter/gin/handler"
	"mongo-user-service/internal/adapter/gin/middleware"
	ginrouter "mongo-user-service/internal/adapter/gin/router"
	"mongo-user-service/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	cfg *config.Config,
	handler *ginhandler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	l *zap.Logger,
) *http.Server {
	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(cfg, handler, rateLimiter, l)

	addr := cfg.App.Address()
	l.Info("REST API configured", zap.String("address", addr))
	l.Info("Swagger UI available", zap.String("url", "http://"+addr+"/swagger/"))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
