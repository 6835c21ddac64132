package reminder

import (
	"fmt"
	"strings"

	"walkwatch/internal/types"
)

// Composer builds the outbound SMS text. Output is fully determined by its
// inputs so every branch can be pinned in tests.
type Composer struct {
	DogNames []string
	Clock    types.Clock
}

func NewComposer(dogNames []string, clock types.Clock) *Composer {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Composer{DogNames: dogNames, Clock: clock}
}

// Compose renders the message for the given local hour, weather snapshot,
// and habit-completion state. When the walk already happened today the
// message congratulates instead of nudging.
func (c *Composer) Compose(hour int, weather types.WeatherCondition, completedToday bool) string {
	names := c.nameList()

	if completedToday {
		var b strings.Builder
		fmt.Fprintf(&b, "🎉 Nice work! %s already got their walk in today.", names)
		if weather.Temperature > 60 && weather.Temperature < 80 && !weather.IsRaining {
			b.WriteString(" Gorgeous weather out there too.")
		}
		b.WriteString(" Enjoy the extra time for something productive!")
		return b.String()
	}

	var b strings.Builder
	switch {
	case hour >= 14 && hour <= 15:
		fmt.Fprintf(&b, "🐕 Afternoon walk time! %s are ready for their adventure.", names)
	case hour >= 16 && hour <= 17:
		fmt.Fprintf(&b, "🌅 Golden hour walk! %s would love a sunset stroll.", names)
	case hour >= 18 && hour <= 19:
		fmt.Fprintf(&b, "🌆 Evening walk time! %s are waiting by the door.", names)
	default:
		fmt.Fprintf(&b, "🐕 Walk time! %s need their daily adventure.", names)
	}

	switch {
	case weather.Temperature < 40:
		b.WriteString(" Bundle up, it's chilly out there! 🧥")
	case weather.Temperature > 85:
		b.WriteString(" Bring water, it's a warm one! 💧")
	}

	switch ClassifyDaylight(weather, c.Clock) {
	case DaylightPastSunset:
		b.WriteString(" It's dark out, grab a light and stay visible. 🔦")
	case DaylightSunsetSoon:
		b.WriteString(" Sunset is coming up soon, head out while there's light. 🌇")
	}

	return b.String()
}

// nameList joins the dog names for prose: "Boris", "Boris and Fiona",
// "Boris, Fiona and Rex".
func (c *Composer) nameList() string {
	switch len(c.DogNames) {
	case 0:
		return "The dogs"
	case 1:
		return c.DogNames[0]
	case 2:
		return c.DogNames[0] + " and " + c.DogNames[1]
	default:
		return strings.Join(c.DogNames[:len(c.DogNames)-1], ", ") + " and " + c.DogNames[len(c.DogNames)-1]
	}
}
