package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"walkwatch/internal/core"
	"walkwatch/internal/reminder"
)

// StatusResponse is a read-only snapshot of the scheduling state, useful
// for eyeballing why the last trigger did or did not send.
type StatusResponse struct {
	Service         string   `json:"service"`
	Timestamp       string   `json:"timestamp"`
	LocalHour       int      `json:"local_hour"`
	LocalDate       string   `json:"local_date"`
	WindowActive    bool     `json:"window_active"`
	AlreadyReminded bool     `json:"already_reminded"`
	NextAction      string   `json:"next_action"`
	Dogs            []string `json:"dogs"`
}

// StatusHandler serves the diagnostic snapshot. It reads the clock and the
// state store but never mutates anything.
type StatusHandler struct {
	service  string
	window   *reminder.Window
	limiter  *reminder.DailyLimiter
	dogNames []string
	logger   *slog.Logger
}

func NewStatusHandler(service string, window *reminder.Window, limiter *reminder.DailyLimiter, dogNames []string, logger *slog.Logger) *StatusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusHandler{
		service:  service,
		window:   window,
		limiter:  limiter,
		dogNames: dogNames,
		logger:   logger,
	}
}

func (h *StatusHandler) Routes(r chi.Router) {
	r.Get("/status", h.HandleStatus)
}

func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	active := h.window.EligibleHour()
	reminded := h.limiter.AlreadySentToday(r.Context())

	var next string
	switch {
	case !active:
		next = "wait"
	case reminded:
		next = "done"
	default:
		next = "send"
	}

	core.JSON(w, http.StatusOK, StatusResponse{
		Service:         h.service,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		LocalHour:       h.window.CurrentLocalHour(),
		LocalDate:       h.window.CurrentLocalDate(),
		WindowActive:    active,
		AlreadyReminded: reminded,
		NextAction:      next,
		Dogs:            h.dogNames,
	})
}
