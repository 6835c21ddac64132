package reminder

import (
	"fmt"

	"walkwatch/internal/types"
)

// Walkability thresholds, in the imperial units the weather upstream
// reports.
const (
	minSafeTempF   = 20.0
	maxSafeTempF   = 95.0
	maxSafeWindMPH = 30.0
)

// SafetyVerdict is the outcome of the walkability rules: a boolean gate plus
// the human-readable reason that feeds into message composition.
type SafetyVerdict struct {
	Safe   bool
	Reason string
}

// EvaluateSafety applies the walkability rules in priority order and returns
// the first match. Rain beats temperature beats wind; only one reason is
// ever reported even when several conditions hold.
func EvaluateSafety(w types.WeatherCondition) SafetyVerdict {
	switch {
	case w.IsRaining:
		return SafetyVerdict{Safe: false, Reason: "It's raining. Maybe wait a bit? 🌧️"}
	case w.Temperature < minSafeTempF:
		return SafetyVerdict{Safe: false, Reason: fmt.Sprintf("It's too cold (%g°F). ❄️", w.Temperature)}
	case w.Temperature > maxSafeTempF:
		return SafetyVerdict{Safe: false, Reason: fmt.Sprintf("It's too hot (%g°F). ☀️", w.Temperature)}
	case w.WindSpeed > maxSafeWindMPH:
		return SafetyVerdict{Safe: false, Reason: "It's too windy! 💨"}
	default:
		return SafetyVerdict{Safe: true, Reason: "Weather looks good!"}
	}
}
