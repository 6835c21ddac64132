package types

// DerailRisk is the habit tracker's urgency classification for a goal,
// derived from its safety buffer (days until derailment).
type DerailRisk string

const (
	RiskCritical DerailRisk = "CRITICAL" // derailing today or already derailed
	RiskWarning  DerailRisk = "WARNING"  // derails tomorrow
	RiskCaution  DerailRisk = "CAUTION"  // derails within 3 days
	RiskSafe     DerailRisk = "SAFE"
)

// ClassifyDerailRisk maps a safety buffer (days until derailment) to a risk bucket.
func ClassifyDerailRisk(safebuf int) DerailRisk {
	switch {
	case safebuf <= 0:
		return RiskCritical
	case safebuf == 1:
		return RiskWarning
	case safebuf <= 3:
		return RiskCaution
	default:
		return RiskSafe
	}
}

// IsUrgent reports whether the risk level demands attention today or tomorrow.
func (r DerailRisk) IsUrgent() bool {
	return r == RiskCritical || r == RiskWarning
}

// HabitGoal is a read-only projection of a goal in the external habit tracker.
type HabitGoal struct {
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	DerailRisk DerailRisk `json:"derail_risk"`
}

// Datapoint is a single recorded event on a habit goal. Daystamp is the
// tracker's compact calendar-day identifier in YYYYMMDD form.
type Datapoint struct {
	Daystamp string  `json:"daystamp"`
	Value    float64 `json:"value"`
	Comment  string  `json:"comment"`
}
