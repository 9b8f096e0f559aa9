// Package server exposes the journal over a small JSON API consumed
// by the dashboard frontend.
package server

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Server wraps the HTTP server serving the journal API.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a Server listening on the given port with all API
// routes registered.
func NewServer(port int, h *Handler, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	h.Register(mux)

	return &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		logger: logger.Named("api-server"),
	}
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
