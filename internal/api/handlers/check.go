// Package handlers contains the HTTP handler implementations for the walk
// reminder service.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"walkwatch/internal/core"
	"walkwatch/internal/reminder"
)

// CheckResponse is the success envelope for POST /check. SkipReason is
// present only when the pipeline decided not to send.
type CheckResponse struct {
	Status     string   `json:"status"`
	Reminded   bool     `json:"reminded"`
	Timestamp  string   `json:"timestamp"`
	Dogs       []string `json:"dogs"`
	SkipReason string   `json:"skip_reason,omitempty"`
}

// CheckHandler runs the reminder decision pipeline on demand. The external
// scheduler POSTs here hourly; the pipeline itself decides whether a
// reminder actually goes out.
type CheckHandler struct {
	engine   *reminder.Engine
	dogNames []string
	logger   *slog.Logger
}

func NewCheckHandler(engine *reminder.Engine, dogNames []string, logger *slog.Logger) *CheckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckHandler{engine: engine, dogNames: dogNames, logger: logger}
}

// Routes registers the handler's endpoints on the router.
func (h *CheckHandler) Routes(r chi.Router) {
	r.Post("/check", h.HandleCheck)
}

// HandleCheck executes one decision cycle and reports the outcome. Pipeline
// failures surface as the standard 500 envelope; skips are still 200 with
// reminded=false.
func (h *CheckHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.engine.Run(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, http.StatusOK, CheckResponse{
		Status:     "success",
		Reminded:   outcome.Sent,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Dogs:       h.dogNames,
		SkipReason: outcome.SkipReason,
	})
}
