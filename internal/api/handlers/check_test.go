package handlers

import (
	"context"
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
	"walkwatch/internal/types"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

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

type fakeWeather struct {
	condition types.WeatherCondition
	err       error
}

func (f *fakeWeather) Current(context.Context, float64, float64) (types.WeatherCondition, error) {
	return f.condition, f.err
}

type fakeSMS struct {
	err   error
	calls int
}

func (f *fakeSMS) Send(context.Context, string) error {
	f.calls++
	return f.err
}

type fakeHabits struct {
	completed bool
}

func (f *fakeHabits) HasCompletedToday(context.Context, string) bool {
	return f.completed
}

var dogs = []string{"Boris", "Fiona"}

// newTestEngine builds an engine wired to fakes at the given UTC instant.
func newTestEngine(t *testing.T, utc time.Time, weather *fakeWeather, sms *fakeSMS) *reminder.Engine {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clock := fixedClock{t: utc}
	window := reminder.NewWindow(loc, 14, 18, clock)
	kv := &memKV{data: make(map[string]string)}

	return &reminder.Engine{
		Window:   window,
		Limiter:  reminder.NewDailyLimiter(kv, window, slog.Default()),
		Habits:   &fakeHabits{},
		Weather:  weather,
		SMS:      sms,
		Composer: reminder.NewComposer(dogs, clock),
		GoalSlug: "dogwalk",
		Logger:   slog.Default(),
	}
}

func serveCheck(engine *reminder.Engine) *httptest.ResponseRecorder {
	h := NewCheckHandler(engine, dogs, slog.Default())
	r := chi.NewRouter()
	h.Routes(r)

	req := httptest.NewRequest(http.MethodPost, "/check", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// 19:00 UTC in July is 15:00 Eastern, inside the reminder window.
var eligibleInstant = time.Date(2025, 7, 15, 19, 0, 0, 0, time.UTC)

func TestHandleCheckSends(t *testing.T) {
	weather := &fakeWeather{condition: types.WeatherCondition{Temperature: 70, SunsetEpoch: eligibleInstant.Add(4 * time.Hour).Unix()}}
	sms := &fakeSMS{}

	rec := serveCheck(newTestEngine(t, eligibleInstant, weather, sms))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.Reminded)
	assert.Empty(t, resp.SkipReason)
	assert.Equal(t, dogs, resp.Dogs)
	assert.NotEmpty(t, resp.Timestamp)
	assert.Equal(t, 1, sms.calls)
}

func TestHandleCheckSkipOutsideWindow(t *testing.T) {
	// 16:00 UTC is noon Eastern in July.
	noon := time.Date(2025, 7, 15, 16, 0, 0, 0, time.UTC)
	weather := &fakeWeather{}
	sms := &fakeSMS{}

	rec := serveCheck(newTestEngine(t, noon, weather, sms))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Reminded)
	assert.Equal(t, reminder.SkipOutsideWindow, resp.SkipReason)
	assert.Zero(t, sms.calls)
}

func TestHandleCheckPipelineFailure(t *testing.T) {
	weather := &fakeWeather{err: types.NewAppError(types.ErrCodeUpstreamWeather, "weather provider returned 500", nil)}

	rec := serveCheck(newTestEngine(t, eligibleInstant, weather, &fakeSMS{}))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "weather provider returned 500", resp["error"])
	assert.NotEmpty(t, resp["timestamp"])
}
