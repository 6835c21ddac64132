package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkwatch/internal/reminder"
)

func serveStatus(t *testing.T, utc time.Time, kv *memKV) StatusResponse {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clock := fixedClock{t: utc}
	window := reminder.NewWindow(loc, 14, 18, clock)
	limiter := reminder.NewDailyLimiter(kv, window, slog.Default())

	h := NewStatusHandler("walkwatch", window, limiter, dogs, slog.Default())
	r := chi.NewRouter()
	h.Routes(r)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleStatus(t *testing.T) {
	t.Run("inside window, not yet reminded", func(t *testing.T) {
		resp := serveStatus(t, eligibleInstant, &memKV{data: map[string]string{}})

		assert.Equal(t, "walkwatch", resp.Service)
		assert.Equal(t, 15, resp.LocalHour)
		assert.Equal(t, "2025-07-15", resp.LocalDate)
		assert.True(t, resp.WindowActive)
		assert.False(t, resp.AlreadyReminded)
		assert.Equal(t, "send", resp.NextAction)
	})

	t.Run("outside window", func(t *testing.T) {
		noon := time.Date(2025, 7, 15, 16, 0, 0, 0, time.UTC)
		resp := serveStatus(t, noon, &memKV{data: map[string]string{}})

		assert.False(t, resp.WindowActive)
		assert.Equal(t, "wait", resp.NextAction)
	})

	t.Run("already reminded", func(t *testing.T) {
		kv := &memKV{data: map[string]string{"last_reminder_date": "2025-07-15"}}
		resp := serveStatus(t, eligibleInstant, kv)

		assert.True(t, resp.AlreadyReminded)
		assert.Equal(t, "done", resp.NextAction)
	})
}
