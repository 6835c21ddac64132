package core

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkwatch/internal/config"
	"walkwatch/internal/reminder"
	"walkwatch/internal/types"
)

const testSecret = "super-secret-webhook-token"

// memKV is a minimal in-memory store.KV for middleware tests.
type memKV struct {
	data map[string]string
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func testConfig() *config.Config {
	return &config.Config{
		Environment: "local",
		Service:     "walkwatch",
		Webhook: config.WebhookConfig{
			Secret:         types.SecretString(testSecret),
			MaxBodyBytes:   1024,
			ThrottleWindow: time.Hour,
		},
		Build: config.BuildInfo{Version: "test"},
	}
}

// newTestServer builds a Server with an in-memory throttle and a trivial
// POST /check-style route for exercising the middleware chain.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(testConfig(), slog.Default())
	require.NoError(t, err)

	kv := &memKV{data: make(map[string]string)}
	clock := fixedClock{t: time.Date(2025, 7, 15, 19, 0, 0, 0, time.UTC)}
	srv.Throttle = reminder.NewCallerThrottle(kv, 3600, clock, slog.Default())

	srv.RouteRegistrars = append(srv.RouteRegistrars, func(r chi.Router) {
		r.Post("/check", func(w http.ResponseWriter, req *http.Request) {
			// Force a body read so MaxBytesReader can trip on chunked bodies.
			_, err := io.ReadAll(req.Body)
			if err != nil {
				ErrorCode(w, req, types.ErrCodePayloadTooLarge, "request body too large")
				return
			}
			JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})
	srv.MountRoutes()
	return srv
}

func doRequest(srv *Server, method, path, token, body string, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestBearerAuth(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(newTestServer(t), http.MethodPost, "/check", "", "", "1.1.1.1:1234")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "error", decodeError(t, rec).Status)
	})

	t.Run("wrong token", func(t *testing.T) {
		rec := doRequest(newTestServer(t), http.MethodPost, "/check", "wrong-token", "", "1.1.1.1:1234")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed scheme", func(t *testing.T) {
		srv := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/check", nil)
		req.Header.Set("Authorization", "Basic abc123")
		req.RemoteAddr = "1.1.1.1:1234"
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := doRequest(newTestServer(t), http.MethodPost, "/check", testSecret, "", "1.1.1.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("health is public", func(t *testing.T) {
		rec := doRequest(newTestServer(t), http.MethodGet, "/health", "", "", "1.1.1.1:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestThrottleRejectsRepeatCaller(t *testing.T) {
	srv := newTestServer(t)

	first := doRequest(srv, http.MethodPost, "/check", testSecret, "", "2.2.2.2:1234")
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(srv, http.MethodPost, "/check", testSecret, "", "2.2.2.2:1234")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "error", decodeError(t, second).Status)

	other := doRequest(srv, http.MethodPost, "/check", testSecret, "", "3.3.3.3:1234")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestMaxBodyRejectsOversizedPayload(t *testing.T) {
	srv := newTestServer(t)
	big := strings.Repeat("x", 2048)

	rec := doRequest(srv, http.MethodPost, "/check", testSecret, big, "4.4.4.4:1234")

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestNotFoundUsesStandardShape(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/nope", testSecret, "", "5.5.5.5:1234")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "route not found", resp.Error)
}

func TestRequestIDEchoedOnResponse(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))

	rec2 := doRequest(srv, http.MethodGet, "/health", "", "", "")
	assert.NotEmpty(t, rec2.Header().Get("X-Request-Id"))
}

func TestSecurityHeaders(t *testing.T) {
	rec := doRequest(newTestServer(t), http.MethodGet, "/health", "", "", "")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHandleHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestServer(t)
		srv.DB = fakePinger{}

		rec := doRequest(srv, http.MethodGet, "/health", "", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp["status"])
		assert.Equal(t, "walkwatch", resp["service"])
		assert.Equal(t, "test", resp["version"])
		assert.NotEmpty(t, resp["timestamp"])
	})

	t.Run("database down", func(t *testing.T) {
		srv := newTestServer(t)
		srv.DB = fakePinger{err: errors.New("connection refused")}

		rec := doRequest(srv, http.MethodGet, "/health", "", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRecovererCatchesPanics(t *testing.T) {
	srv, err := NewServer(testConfig(), slog.Default())
	require.NoError(t, err)
	srv.RouteRegistrars = append(srv.RouteRegistrars, func(r chi.Router) {
		r.Post("/check", func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})
	})
	srv.MountRoutes()

	rec := doRequest(srv, http.MethodPost, "/check", testSecret, "", "6.6.6.6:1234")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", decodeError(t, rec).Status)
}
