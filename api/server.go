// Package api exposes the chat environment over HTTP.
//
// Endpoints:
//
//	GET  /health                               liveness probe
//	GET  /ready                                readiness probe (pings the database)
//	POST /api/sessions/{id}/environment        merge request settings, return the snapshot
//
// File structure:
//   - server.go: server setup and route registration
//   - environment.go: the environment endpoint
//   - health.go: health probes
//   - middleware.go: recovery and request logging
//   - response.go: JSON response helpers
package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koopa0/chatctx/internal/log"
)

// Server is the HTTP server for the chat environment API.
type Server struct {
	mux    *http.ServeMux
	logger log.Logger

	health      *HealthHandler
	environment *EnvironmentHandler
}

// NewServer creates a server with all routes registered.
// pool may be nil; readiness then reports unavailable.
func NewServer(loader ContextLoader, pool *pgxpool.Pool, logger log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		mux:         mux,
		logger:      logger,
		health:      NewHealthHandler(pool, logger),
		environment: NewEnvironmentHandler(loader, logger),
	}

	s.health.RegisterRoutes(mux)
	s.environment.RegisterRoutes(mux)

	return s
}

// Handler returns the full handler chain: recovery outermost, then request
// logging, then the mux.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
	)
}
