package core

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HandleHealth reports liveness. When a database pool is wired it is pinged
// with a short deadline; a failed ping degrades the status to 503 so the
// scheduler's monitoring notices before the next send window.
//
// This endpoint is public and mounted at GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Service:   s.Config.Service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.Config.Build.Version,
	}

	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := s.DB.Ping(ctx); err != nil {
			s.Logger.WarnContext(r.Context(), "health check database ping failed", "error", err)
			resp.Status = "unhealthy"
			JSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	JSON(w, http.StatusOK, resp)
}
