package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkwatch/internal/types"
)

// fixedClock returns a constant instant; shared by tests in this package.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

var _ types.Clock = fixedClock{}

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestEligibleHourCoversClosedRange(t *testing.T) {
	loc := eastern(t)
	for hour := 0; hour < 24; hour++ {
		clock := fixedClock{t: time.Date(2025, 7, 15, hour, 30, 0, 0, loc)}
		w := NewWindow(loc, 14, 18, clock)

		want := hour >= 14 && hour <= 18
		assert.Equalf(t, want, w.EligibleHour(), "hour %d", hour)
	}
}

func TestCurrentLocalHourHandlesDST(t *testing.T) {
	loc := eastern(t)

	tests := []struct {
		name     string
		utc      time.Time
		wantHour int
	}{
		{
			name:     "standard time, UTC-5",
			utc:      time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC),
			wantHour: 13,
		},
		{
			name:     "daylight time, UTC-4",
			utc:      time.Date(2025, 7, 15, 18, 0, 0, 0, time.UTC),
			wantHour: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(loc, 14, 18, fixedClock{t: tt.utc})
			assert.Equal(t, tt.wantHour, w.CurrentLocalHour())
		})
	}
}

func TestCurrentLocalDateUsesWindowTimezone(t *testing.T) {
	loc := eastern(t)

	// 02:00 UTC is still the previous evening in the Eastern timezone.
	clock := fixedClock{t: time.Date(2025, 10, 20, 2, 0, 0, 0, time.UTC)}
	w := NewWindow(loc, 14, 18, clock)

	assert.Equal(t, "2025-10-19", w.CurrentLocalDate())
}
