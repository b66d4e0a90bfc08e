package normalize

import "github.com/skypulsear/meteofusion/internal/sources"

// Point is a provider record translated into canonical units. All
// meteorological fields are optional (nil when the provider omitted them or
// the value could not be parsed); Source and Timestamp are always set.
type Point struct {
	Source       sources.ID `json:"source"`
	Timestamp    int64      `json:"timestamp"` // unix seconds, UTC
	ForecastHour int        `json:"forecast_hour"`
	Lat          float64    `json:"lat"`
	Lon          float64    `json:"lon"`

	TemperatureC *float64 `json:"temperature_c,omitempty"`
	WindSpeedMS  *float64 `json:"wind_speed_ms,omitempty"`
	WindDirDeg   *float64 `json:"wind_dir_deg,omitempty"`
	PrecipMM     *float64 `json:"precip_mm,omitempty"`
	CloudPct     *float64 `json:"cloud_pct,omitempty"`
	HumidityPct  *float64 `json:"humidity_pct,omitempty"`
	PressureHPa  *float64 `json:"pressure_hpa,omitempty"`
}

func ptr(f float64) *float64 { return &f }
