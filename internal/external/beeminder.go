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

// HabitSource exposes the subset of the habit tracker API the reminder
// pipeline consumes: recent datapoints for one goal, and the full goal list
// with derail-risk buckets.
type HabitSource interface {
	RecentDatapoints(ctx context.Context, goalSlug string, count int) ([]types.Datapoint, error)
	UserGoals(ctx context.Context) ([]types.HabitGoal, error)
}

// BeeminderClient implements HabitSource against the Beeminder v1 API.
// Authentication is a query-string token per the upstream API contract.
type BeeminderClient struct {
	base     *BaseClient
	apiKey   types.SecretString
	username string
	baseURL  string
	logger   *slog.Logger
}

func NewBeeminderClient(cfg config.HabitsConfig, logger *slog.Logger) *BeeminderClient {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &BeeminderClient{
		base:     NewBaseClient(httpClient, "beeminder", "walkwatch/1.0"),
		apiKey:   cfg.APIKey,
		username: cfg.Username,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:   logger,
	}
}

type beeminderDatapoint struct {
	Daystamp string  `json:"daystamp"`
	Value    float64 `json:"value"`
	Comment  string  `json:"comment"`
}

type beeminderGoal struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Safebuf int    `json:"safebuf"`
}

// RecentDatapoints fetches the newest datapoints for a goal, most recent
// first. count caps the page size; values <= 0 default to 5.
func (c *BeeminderClient) RecentDatapoints(ctx context.Context, goalSlug string, count int) ([]types.Datapoint, error) {
	if count <= 0 {
		count = 5
	}

	reqURL := fmt.Sprintf("%s/api/v1/users/%s/goals/%s/datapoints.json?auth_token=%s&count=%d&sort=daystamp",
		c.baseURL, url.PathEscape(c.username), url.PathEscape(goalSlug), url.QueryEscape(c.apiKey.Unmask()), count)

	body, err := c.getJSON(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var raw []beeminderDatapoint
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamHabits,
			"failed to decode datapoints response",
			err,
		)
	}

	points := make([]types.Datapoint, 0, len(raw))
	for _, dp := range raw {
		points = append(points, types.Datapoint{
			Daystamp: dp.Daystamp,
			Value:    dp.Value,
			Comment:  dp.Comment,
		})
	}
	return points, nil
}

// UserGoals fetches every goal for the configured user and classifies each
// one's derail risk from its safety buffer.
func (c *BeeminderClient) UserGoals(ctx context.Context) ([]types.HabitGoal, error) {
	reqURL := fmt.Sprintf("%s/api/v1/users/%s/goals.json?auth_token=%s",
		c.baseURL, url.PathEscape(c.username), url.QueryEscape(c.apiKey.Unmask()))

	body, err := c.getJSON(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var raw []beeminderGoal
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamHabits,
			"failed to decode goals response",
			err,
		)
	}

	goals := make([]types.HabitGoal, 0, len(raw))
	for _, g := range raw {
		goals = append(goals, types.HabitGoal{
			Slug:       g.Slug,
			Title:      g.Title,
			DerailRisk: types.ClassifyDerailRisk(g.Safebuf),
		})
	}
	return goals, nil
}

func (c *BeeminderClient) getJSON(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create habits request",
			err,
		)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, wrapUpstreamError(types.ErrCodeUpstreamHabits, "habit tracker request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamHabits,
			fmt.Sprintf("habit tracker returned %d", resp.StatusCode),
			nil,
			map[string]any{"body": readBodyExcerpt(resp.Body)},
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamHabits,
			"failed to read habits response body",
			err,
		)
	}
	return body, nil
}

var _ HabitSource = (*BeeminderClient)(nil)
