package server

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"mongo-user-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, httpServer *http.Server) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		HTTP:   httpServer,
	}
}

// Start starts the HTTP server and blocks until it stops. A graceful
// shutdown is not reported as an error.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))

	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}

	return nil
}
