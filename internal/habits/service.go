package habits

import (
	"context"
	"log/slog"

	"walkwatch/internal/external"
	"walkwatch/internal/types"
)

// Service wraps the habit tracker with the degradation policy the reminder
// pipeline wants: tracker outages never abort a reminder cycle, they only
// remove the habit signal from it.
type Service struct {
	source external.HabitSource
	clock  types.Clock
	logger *slog.Logger
}

func NewService(source external.HabitSource, clock types.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, clock: clock, logger: logger}
}

// HasCompletedToday reports whether the goal has a datapoint stamped with
// today's UTC date. Tracker errors degrade to false rather than propagating.
func (s *Service) HasCompletedToday(ctx context.Context, goalSlug string) bool {
	points, err := s.source.RecentDatapoints(ctx, goalSlug, 5)
	if err != nil {
		s.logger.WarnContext(ctx, "habit lookup failed, assuming not completed",
			"goal", goalSlug, "error", err)
		return false
	}

	today := s.clock.Now().UTC().Format("20060102")
	for _, dp := range points {
		if dp.Daystamp == today {
			return true
		}
	}
	return false
}

// FetchAllGoals returns every goal with its derail risk, or nil when the
// tracker is unreachable. Callers treat nil as "no habit signal available".
func (s *Service) FetchAllGoals(ctx context.Context) []types.HabitGoal {
	goals, err := s.source.UserGoals(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "goal fetch failed, skipping habit signal", "error", err)
		return nil
	}
	return goals
}

// FilterUrgent keeps only goals at CRITICAL or WARNING derail risk,
// preserving input order.
func FilterUrgent(goals []types.HabitGoal) []types.HabitGoal {
	var urgent []types.HabitGoal
	for _, g := range goals {
		if g.DerailRisk.IsUrgent() {
			urgent = append(urgent, g)
		}
	}
	return urgent
}

// PickMostUrgent returns the first urgent goal in source order. The tracker
// already returns goals ordered by urgency, so the first urgent one is the
// most pressing. The second return is false when no goal is urgent.
func PickMostUrgent(goals []types.HabitGoal) (types.HabitGoal, bool) {
	for _, g := range goals {
		if g.DerailRisk.IsUrgent() {
			return g, true
		}
	}
	return types.HabitGoal{}, false
}
