package reminder

import (
	"time"

	"walkwatch/internal/types"
)

// Window answers "is now a good time" questions against a configured local
// timezone. All hour math happens in the target location so daylight saving
// transitions fall out of the standard library's zone handling.
type Window struct {
	Location  *time.Location
	StartHour int
	EndHour   int
	Clock     types.Clock
}

func NewWindow(loc *time.Location, startHour, endHour int, clock types.Clock) *Window {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Window{Location: loc, StartHour: startHour, EndHour: endHour, Clock: clock}
}

// CurrentLocalHour returns the hour of day (0-23) in the window's timezone.
func (w *Window) CurrentLocalHour() int {
	return w.Clock.Now().In(w.Location).Hour()
}

// EligibleHour reports whether the current local hour falls inside the
// reminder window. Both bounds are inclusive.
func (w *Window) EligibleHour() bool {
	h := w.CurrentLocalHour()
	return h >= w.StartHour && h <= w.EndHour
}

// CurrentLocalDate returns today's date in the window's timezone as
// YYYY-MM-DD, the granularity the daily-send limiter keys on.
func (w *Window) CurrentLocalDate() string {
	return w.Clock.Now().In(w.Location).Format("2006-01-02")
}
