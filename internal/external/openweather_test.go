package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkwatch/internal/config"
	"walkwatch/internal/types"
)

func weatherConfig(baseURL string) config.WeatherConfig {
	return config.WeatherConfig{
		APIKey:  types.SecretString("test-key"),
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}
}

func TestOpenWeatherCurrentMapsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "41.6764", r.URL.Query().Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"main": {"temp": 72.5},
			"weather": [{"main": "Clouds", "description": "scattered clouds"}],
			"wind": {"speed": 8.1},
			"sys": {"sunrise": 1752570000, "sunset": 1752623000}
		}`))
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(weatherConfig(srv.URL), nil)
	cond, err := client.Current(context.Background(), 41.6764, -86.2520)
	require.NoError(t, err)

	assert.Equal(t, 72.5, cond.Temperature)
	assert.Equal(t, "scattered clouds", cond.Description)
	assert.Equal(t, 8.1, cond.WindSpeed)
	assert.False(t, cond.IsRaining)
	assert.False(t, cond.IsSnowing)
	assert.Equal(t, int64(1752570000), cond.SunriseEpoch)
	assert.Equal(t, int64(1752623000), cond.SunsetEpoch)
}

func TestOpenWeatherCurrentDetectsPrecipitation(t *testing.T) {
	tests := []struct {
		name        string
		weatherMain string
		wantRain    bool
		wantSnow    bool
	}{
		{"rain", "Rain", true, false},
		{"drizzle counts as rain", "Drizzle", true, false},
		{"snow", "Snow", false, true},
		{"clear", "Clear", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"main":{"temp":50},"weather":[{"main":"` + tt.weatherMain + `","description":"x"}],"wind":{"speed":3},"sys":{"sunrise":1,"sunset":2}}`))
			}))
			defer srv.Close()

			client := NewOpenWeatherClient(weatherConfig(srv.URL), nil)
			cond, err := client.Current(context.Background(), 0, 0)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRain, cond.IsRaining)
			assert.Equal(t, tt.wantSnow, cond.IsSnowing)
		})
	}
}

func TestOpenWeatherCurrentNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(weatherConfig(srv.URL), nil)
	_, err := client.Current(context.Background(), 0, 0)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeUpstreamWeather, appErr.Code)
	assert.Contains(t, appErr.Details["body"], "Invalid API key")
}

func TestOpenWeatherCurrentMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(weatherConfig(srv.URL), nil)
	_, err := client.Current(context.Background(), 0, 0)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeUpstreamWeather, appErr.Code)
}

func TestOpenWeatherCurrentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(weatherConfig(srv.URL), nil)
	_, err := client.Current(context.Background(), 0, 0)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeUpstreamWeather, appErr.Code)
}
