package fuse

import (
	"time"

	"github.com/skypulsear/meteofusion/internal/inconsistency"
	"github.com/skypulsear/meteofusion/internal/sources"
)

// ConfidenceLevel buckets a numeric confidence into the spec's five bands.
type ConfidenceLevel string

const (
	ConfidenceVeryLow  ConfidenceLevel = "VERY_LOW"
	ConfidenceLow      ConfidenceLevel = "LOW"
	ConfidenceMedium   ConfidenceLevel = "MEDIUM"
	ConfidenceHigh     ConfidenceLevel = "HIGH"
	ConfidenceVeryHigh ConfidenceLevel = "VERY_HIGH"
)

func confidenceLevel(c float64) ConfidenceLevel {
	switch {
	case c > 0.9:
		return ConfidenceVeryHigh
	case c > 0.7:
		return ConfidenceHigh
	case c > 0.5:
		return ConfidenceMedium
	case c > 0.3:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// Contribution records one source's input to a fused variable.
type Contribution struct {
	Source     sources.ID
	Value      float64
	Weight     float64
	Confidence float64
}

// Forecast is the Fuser's output: one fused point plus the provenance and
// confidence needed to act on it.
type Forecast struct {
	Timestamp    time.Time
	ForecastHour int
	Lat, Lon     float64

	TemperatureC *float64
	WindSpeedMS  *float64
	WindDirDeg   *float64
	PrecipMM     *float64
	CloudPct     *float64
	HumidityPct  *float64
	PressureHPa  *float64

	// ApparentTemperatureC and WeatherCode are enrichment fields that the
	// Fuser does not populate; they are always nil in its output.
	ApparentTemperatureC *float64
	WeatherCode          *int

	TemperatureConfidence   float64
	WindConfidence          float64
	PrecipitationConfidence float64
	OverallConfidence       float64
	ConfidenceLevel         ConfidenceLevel

	TemperatureContributions []Contribution
	WindContributions        []Contribution
	PrecipitationContributions []Contribution

	SourcesUsed      map[sources.ID]bool
	SourcesAvailable int

	Inconsistencies               []inconsistency.Report
	HasSignificantInconsistencies bool

	FusionMethod string
}
