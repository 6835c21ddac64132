// Package core provides the HTTP chassis for the walk reminder service.
// It builds a chi router with the cross-cutting concerns (recovery, request
// IDs, logging, auth, throttling, body limits) applied before requests reach
// the domain handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"walkwatch/internal/config"
	"walkwatch/internal/reminder"
	"walkwatch/internal/telemetry"
)

// Pinger is the slice of the database pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server bundles the dependencies of the HTTP layer so tests can inject
// fakes for any of them.
type Server struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       Pinger
	Throttle *reminder.CallerThrottle
	Metrics  telemetry.Collector

	// RouteRegistrars are populated by the entry point before MountRoutes
	// is called. The indirection keeps handler packages from importing
	// core circularly.
	RouteRegistrars []func(chi.Router)

	router *chi.Mux
}

// NewServer validates the required dependencies and prepares the router.
// The caller mounts routes afterwards via MountRoutes.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	return &Server{
		Config: cfg,
		Logger: logger,
		router: chi.NewRouter(),
	}, nil
}

// Handler returns the router as an http.Handler for http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router exposes the underlying mux for tests and route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}
