package core

import (
	"net/http"

	"walkwatch/internal/types"
)

// MountRoutes registers the global middleware chain, the top-level probes,
// and every registrar the entry point supplied.
func (s *Server) MountRoutes() {
	s.registerGlobalMiddleware()

	s.router.Get("/health", s.HandleHealth)

	for _, registrar := range s.RouteRegistrars {
		registrar(s.router)
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ErrorCode(w, r, types.ErrCodeNotFoundRoute, "route not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorCode(w, r, types.ErrCodeNotFoundRoute, "route not found")
	})
}

// registerGlobalMiddleware applies middleware in strict order.
//
// Ordering rationale:
//  1. Recoverer       - outermost so every panic is caught.
//  2. RequestID       - correlation ID available to all later stages.
//  3. SecurityHeaders - applied to every response including errors.
//  4. RequestLogger   - observes final status of auth/throttle rejections.
//  5. Metrics         - same observation point as the logger.
//  6. MaxBody         - rejects oversized payloads before any read.
//  7. BearerAuth      - rejects unauthenticated callers.
//  8. Throttle        - counts only authenticated callers.
func (s *Server) registerGlobalMiddleware() {
	s.router.Use(s.Recoverer)
	s.router.Use(RequestIDMiddleware)
	s.router.Use(SecurityHeadersMiddleware)
	s.router.Use(s.RequestLogger)
	s.router.Use(s.MetricsMiddleware)
	s.router.Use(s.MaxBodyMiddleware)
	s.router.Use(s.BearerAuthMiddleware)
	s.router.Use(s.ThrottleMiddleware)
}
