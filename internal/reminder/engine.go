package reminder

import (
	"context"
	"log/slog"

	"walkwatch/internal/external"
)

// Skip reasons surfaced in API responses and logs.
const (
	SkipOutsideWindow = "outside window"
	SkipAlreadySent   = "already sent"
	SkipUnsafeWeather = "unsafe weather"
)

// HabitChecker is the slice of the habit service the engine needs.
type HabitChecker interface {
	HasCompletedToday(ctx context.Context, goalSlug string) bool
}

// DecisionRecorder receives the terminal outcome of each cycle for
// metrics. Implementations must tolerate being called from the request
// path without blocking it.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, outcome string)
}

// Outcome is the terminal result of one reminder cycle.
type Outcome struct {
	Sent       bool
	SkipReason string
	Message    string
}

// Engine runs the reminder decision pipeline: time check, daily rate
// check, signal gathering, composition, send, commit. Each invocation is
// sequential and self-contained; overlapping invocations may produce one
// duplicate send, which is accepted rather than locked against.
type Engine struct {
	Window   *Window
	Limiter  *DailyLimiter
	Habits   HabitChecker
	Weather  external.WeatherSource
	SMS      external.SMSSender
	Composer *Composer
	Metrics  DecisionRecorder

	GoalSlug  string
	Latitude  float64
	Longitude float64
	Logger    *slog.Logger
}

// Run executes one decision cycle. A skip returns (Outcome, nil); weather
// or SMS failures return an error and no partial state is committed.
func (e *Engine) Run(ctx context.Context) (Outcome, error) {
	hour := e.Window.CurrentLocalHour()
	if !e.Window.EligibleHour() {
		e.Logger.InfoContext(ctx, "skipping reminder", "reason", SkipOutsideWindow, "local_hour", hour)
		return e.done(ctx, Outcome{SkipReason: SkipOutsideWindow})
	}

	if e.Limiter.AlreadySentToday(ctx) {
		e.Logger.InfoContext(ctx, "skipping reminder", "reason", SkipAlreadySent)
		return e.done(ctx, Outcome{SkipReason: SkipAlreadySent})
	}

	completed := e.Habits.HasCompletedToday(ctx, e.GoalSlug)

	weather, err := e.Weather.Current(ctx, e.Latitude, e.Longitude)
	if err != nil {
		e.Logger.ErrorContext(ctx, "weather fetch failed", "error", err)
		e.record(ctx, "failed")
		return Outcome{}, err
	}

	verdict := EvaluateSafety(weather)
	if !verdict.Safe && !completed {
		e.Logger.InfoContext(ctx, "skipping reminder",
			"reason", SkipUnsafeWeather, "detail", verdict.Reason)
		return e.done(ctx, Outcome{SkipReason: SkipUnsafeWeather})
	}

	message := e.Composer.Compose(hour, weather, completed)

	if err := e.SMS.Send(ctx, message); err != nil {
		e.Logger.ErrorContext(ctx, "SMS send failed", "error", err)
		e.record(ctx, "failed")
		return Outcome{}, err
	}

	// The SMS is already out; a failed commit only risks one duplicate
	// send next cycle, so it is logged rather than surfaced.
	if err := e.Limiter.MarkSentNow(ctx); err != nil {
		e.Logger.ErrorContext(ctx, "failed to record send date", "error", err)
	}

	e.Logger.InfoContext(ctx, "reminder sent",
		"local_hour", hour, "completed_today", completed, "weather", verdict.Reason)
	return e.done(ctx, Outcome{Sent: true, Message: message})
}

func (e *Engine) done(ctx context.Context, o Outcome) (Outcome, error) {
	switch {
	case o.Sent:
		e.record(ctx, "sent")
	default:
		e.record(ctx, "skipped")
	}
	return o, nil
}

func (e *Engine) record(ctx context.Context, outcome string) {
	if e.Metrics != nil {
		e.Metrics.RecordDecision(ctx, outcome)
	}
}
