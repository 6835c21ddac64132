package reminder

import "walkwatch/internal/types"

const sunsetApproachWindow = 3600 // seconds

// DaylightPhase describes where "now" sits relative to the weather
// snapshot's sunset time. Used only for message flavoring.
type DaylightPhase int

const (
	DaylightFull DaylightPhase = iota
	DaylightSunsetSoon
	DaylightPastSunset
)

// ClassifyDaylight compares the current instant against the snapshot's
// sunset epoch. The "soon" window opens one hour before sunset.
func ClassifyDaylight(w types.WeatherCondition, clock types.Clock) DaylightPhase {
	now := clock.Now().Unix()
	switch {
	case now > w.SunsetEpoch:
		return DaylightPastSunset
	case now >= w.SunsetEpoch-sunsetApproachWindow:
		return DaylightSunsetSoon
	default:
		return DaylightFull
	}
}
