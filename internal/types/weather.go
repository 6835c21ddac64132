package types

// WeatherCondition is an immutable snapshot of current weather at the
// configured walk location. It is fetched fresh for each decision cycle and
// never cached across invocations.
type WeatherCondition struct {
	// Temperature in degrees Fahrenheit.
	Temperature float64 `json:"temperature"`
	// Description is the provider's human-readable summary (e.g. "clear sky").
	Description string `json:"description"`
	IsRaining   bool   `json:"is_raining"`
	IsSnowing   bool   `json:"is_snowing"`
	// WindSpeed in miles per hour.
	WindSpeed float64 `json:"wind_speed"`
	// SunriseEpoch and SunsetEpoch are Unix seconds for the local
	// sunrise/sunset, as reported by the provider.
	SunriseEpoch int64 `json:"sunrise"`
	SunsetEpoch  int64 `json:"sunset"`
}
