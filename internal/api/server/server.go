// Package server provides the HTTP server implementation
package server

// @title           GridWatch API
// @version         1.0
// @description     Day-ahead electricity price service with global rate limiting.
//
// @description.markdown
// All API endpoints except /health, /ready, /metrics and /swagger are subject
// to rate limiting, applied per client IP. When the limit is exceeded a 429
// is returned with X-RateLimit-* and Retry-After headers.
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @response 429 {object} models.ErrorResponse "Rate limit exceeded"

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"gridwatch/internal/api/handlers"
	"gridwatch/internal/api/routes"
	"gridwatch/internal/config"
)

// Server represents the HTTP server
type Server struct {
	cfg  *config.Config
	db   *sql.DB
	svc  handlers.FetchService
	http *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, db *sql.DB, svc handlers.FetchService) *Server {
	return &Server{cfg: cfg, db: db, svc: svc}
}

// Start starts the HTTP server and blocks until it stops serving.
func (s *Server) Start() error {
	router := routes.SetupRoutes(s.cfg, s.db, s.svc)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logrus.WithField("addr", s.http.Addr).Info("Starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
