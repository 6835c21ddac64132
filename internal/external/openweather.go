package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"walkwatch/internal/config"
	"walkwatch/internal/types"
)

// WeatherSource fetches a current-conditions snapshot for a coordinate pair.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (types.WeatherCondition, error)
}

// OpenWeatherClient implements WeatherSource against the OpenWeather "current
// weather data" API, requesting imperial units so temperatures arrive in °F
// and wind speeds in mph.
type OpenWeatherClient struct {
	base    *BaseClient
	apiKey  types.SecretString
	baseURL string
	logger  *slog.Logger
}

// NewOpenWeatherClient creates an OpenWeatherClient from the weather
// configuration. The http client's timeout bounds each fetch.
func NewOpenWeatherClient(cfg config.WeatherConfig, logger *slog.Logger) *OpenWeatherClient {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &OpenWeatherClient{
		base:    NewBaseClient(httpClient, "openweather", "walkwatch/1.0"),
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// openWeatherResponse mirrors the subset of the provider payload we consume.
type openWeatherResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// Current performs a single network call to the weather provider and maps the
// response into a WeatherCondition snapshot. Any non-2xx response or malformed
// body yields an upstream_weather_unavailable error carrying the status and a
// body excerpt; the caller decides whether that is fatal to its cycle.
func (c *OpenWeatherClient) Current(ctx context.Context, lat, lon float64) (types.WeatherCondition, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("appid", c.apiKey.Unmask())
	q.Set("units", "imperial")

	reqURL := c.baseURL + "/data/2.5/weather?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.WeatherCondition{}, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create weather request",
			err,
		)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return types.WeatherCondition{}, wrapUpstreamError(types.ErrCodeUpstreamWeather, "weather fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.WeatherCondition{}, types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamWeather,
			fmt.Sprintf("weather provider returned %d", resp.StatusCode),
			nil,
			map[string]any{"body": readBodyExcerpt(resp.Body)},
		)
	}

	var ow openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&ow); err != nil {
		return types.WeatherCondition{}, types.NewAppError(
			types.ErrCodeUpstreamWeather,
			"weather provider returned a malformed body",
			err,
		)
	}

	cond := types.WeatherCondition{
		Temperature:  ow.Main.Temp,
		WindSpeed:    ow.Wind.Speed,
		SunriseEpoch: ow.Sys.Sunrise,
		SunsetEpoch:  ow.Sys.Sunset,
	}
	for _, w := range ow.Weather {
		switch w.Main {
		case "Rain", "Drizzle":
			cond.IsRaining = true
		case "Snow":
			cond.IsSnowing = true
		}
	}
	if len(ow.Weather) > 0 {
		cond.Description = ow.Weather[0].Description
	}

	return cond, nil
}

// readBodyExcerpt reads a short prefix of an error response body for
// diagnostics without risking unbounded reads.
func readBodyExcerpt(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}

// wrapUpstreamError re-codes a BaseClient transport error under the provider's
// error code while preserving circuit breaker and rate-limit codes.
func wrapUpstreamError(code types.ErrorCode, message string, err error) error {
	var appErr *types.AppError
	if ok := asAppError(err, &appErr); ok && appErr.Code == types.ErrCodeUpstreamRateLimited {
		return err
	}
	return types.NewAppError(code, message, err)
}

// asAppError is a small helper around errors.As kept here so the provider
// clients read uniformly.
func asAppError(err error, target **types.AppError) bool {
	if e, ok := err.(*types.AppError); ok {
		*target = e
		return true
	}
	return false
}

// Compile-time assertion that OpenWeatherClient satisfies WeatherSource.
var _ WeatherSource = (*OpenWeatherClient)(nil)
