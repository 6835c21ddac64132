package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"walkwatch/internal/store"
	"walkwatch/internal/types"
)

const lastReminderKey = "last_reminder_date"

// DailyLimiter enforces at most one reminder per local calendar day by
// persisting the last send date. Reads fail open: if the store is down we
// would rather risk one duplicate SMS than miss a walk.
type DailyLimiter struct {
	KV     store.KV
	Window *Window
	Logger *slog.Logger
}

func NewDailyLimiter(kv store.KV, window *Window, logger *slog.Logger) *DailyLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DailyLimiter{KV: kv, Window: window, Logger: logger}
}

// AlreadySentToday reports whether a reminder went out on today's local
// date. Missing record or store read failure both count as "not sent".
func (l *DailyLimiter) AlreadySentToday(ctx context.Context) bool {
	value, found, err := l.KV.Get(ctx, lastReminderKey)
	if err != nil {
		l.Logger.WarnContext(ctx, "rate limit read failed, assuming not sent", "error", err)
		return false
	}
	if !found {
		return false
	}
	return value == l.Window.CurrentLocalDate()
}

// MarkSentNow records today's local date as the last send date. The caller
// decides whether a write failure is fatal; after a successful send it is
// not.
func (l *DailyLimiter) MarkSentNow(ctx context.Context) error {
	return l.KV.Set(ctx, lastReminderKey, l.Window.CurrentLocalDate())
}

// CallerThrottle rejects repeat calls from the same identity within a fixed
// window. It is a coarse guard in front of the pipeline, not a correctness
// mechanism; store failures fail open.
type CallerThrottle struct {
	KV            store.KV
	WindowSeconds int64
	Clock         types.Clock
	Logger        *slog.Logger
}

func NewCallerThrottle(kv store.KV, windowSeconds int64, clock types.Clock, logger *slog.Logger) *CallerThrottle {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CallerThrottle{KV: kv, WindowSeconds: windowSeconds, Clock: clock, Logger: logger}
}

// Allow reports whether callerID may proceed, recording the call time when
// it may. Last-write-wins; overlapping callers are an accepted race.
func (t *CallerThrottle) Allow(ctx context.Context, callerID string) bool {
	key := fmt.Sprintf("rate_limit:%s", callerID)
	now := t.Clock.Now().Unix()

	value, found, err := t.KV.Get(ctx, key)
	if err != nil {
		t.Logger.WarnContext(ctx, "throttle read failed, allowing request", "caller", callerID, "error", err)
		return true
	}
	if found {
		last, parseErr := strconv.ParseInt(value, 10, 64)
		if parseErr == nil && now-last < t.WindowSeconds {
			return false
		}
	}

	if err := t.KV.Set(ctx, key, strconv.FormatInt(now, 10)); err != nil {
		t.Logger.WarnContext(ctx, "throttle write failed", "caller", callerID, "error", err)
	}
	return true
}
