package domain

import "fmt"

// WeatherSnapshot captures current conditions at an asset's coordinate.
// It doubles as the event centre for a scan cycle. Immutable after
// creation; the zero value represents "weather unavailable".
type WeatherSnapshot struct {
	Location     string  `json:"location"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	TempC        float64 `json:"temp_c"`
	Condition    string  `json:"condition"`
	WindSpeedMS  float64 `json:"wind_speed_ms"`
	VisibilityKm float64 `json:"visibility_km"`
}

// Summary renders the snapshot for classification context, or "N/A" when
// no weather data is available.
func (w WeatherSnapshot) Summary() string {
	if w.Condition == "" {
		return "N/A"
	}
	return fmt.Sprintf("%s, Wind: %gm/s", w.Condition, w.WindSpeedMS)
}
