// Package engine orchestrates ingestion, fusion, pattern detection, alerting,
// and risk scoring into the operations a consumer calls end to end.
package engine

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/skypulsear/meteofusion/internal/alert"
	"github.com/skypulsear/meteofusion/internal/fuse"
	"github.com/skypulsear/meteofusion/internal/ingest"
	"github.com/skypulsear/meteofusion/internal/normalize"
	"github.com/skypulsear/meteofusion/internal/pattern"
	"github.com/skypulsear/meteofusion/internal/risk"
	"github.com/skypulsear/meteofusion/internal/sources"
)

// ErrNoForecasts is returned when a requested operation has nothing to work
// from: no source returned any usable data.
var ErrNoForecasts = errors.New("no forecast data available from any source")

// Engine wires the pipeline stages together: Ingestor -> Fuser ->
// PatternDetector -> AlertService -> RiskScorer.
type Engine struct {
	ingestor *ingest.Ingestor
	fuser    *fuse.Fuser
	patterns *pattern.Detector
	alerts   *alert.Service
	scorer   *risk.Scorer

	defaultSources []sources.ID
	log            zerolog.Logger
}

// New builds an Engine from its constituent services.
func New(ingestor *ingest.Ingestor, fuser *fuse.Fuser, patterns *pattern.Detector, alerts *alert.Service, scorer *risk.Scorer, defaultSources []sources.ID, log zerolog.Logger) *Engine {
	return &Engine{
		ingestor:       ingestor,
		fuser:          fuser,
		patterns:       patterns,
		alerts:         alerts,
		scorer:         scorer,
		defaultSources: defaultSources,
		log:            log,
	}
}

// GetUnifiedForecast fetches every requested source concurrently, fuses
// same-hour points, and returns one Forecast per forecast hour, sorted
// ascending. wanted defaults to the Engine's configured sources when nil.
func (e *Engine) GetUnifiedForecast(ctx context.Context, lat, lon float64, hours int, wanted []sources.ID) ([]fuse.Forecast, error) {
	if wanted == nil {
		wanted = e.defaultSources
	}

	points, fetchErrs := e.ingestor.FetchForecast(ctx, lat, lon, hours, wanted)
	for _, fe := range fetchErrs {
		e.log.Warn().Str("source", fe.Source).Str("class", string(fe.Class)).Err(fe.Err).Msg("source contributed no forecast data")
	}
	if len(points) == 0 {
		return nil, ErrNoForecasts
	}

	grouped := groupByForecastHour(points)
	baseTime := time.Now().UTC()

	hoursSorted := make([]int, 0, len(grouped))
	for h := range grouped {
		hoursSorted = append(hoursSorted, h)
	}
	sort.Ints(hoursSorted)

	forecasts := make([]fuse.Forecast, 0, len(hoursSorted))
	for _, h := range hoursSorted {
		ts := baseTime.Add(time.Duration(h) * time.Hour)
		forecasts = append(forecasts, e.fuser.Fuse(grouped[h], ts, h, lat, lon))
	}
	return forecasts, nil
}

// GetCurrentUnified fetches and fuses current-conditions data from every
// requested source. Returns nil, nil when no source has data, matching the
// original's "no current data" outcome (distinct from an error).
func (e *Engine) GetCurrentUnified(ctx context.Context, lat, lon float64, wanted []sources.ID) (*fuse.Forecast, error) {
	if wanted == nil {
		wanted = e.defaultSources
	}

	points, fetchErrs := e.ingestor.FetchCurrent(ctx, lat, lon, wanted)
	for _, fe := range fetchErrs {
		e.log.Warn().Str("source", fe.Source).Str("class", string(fe.Class)).Err(fe.Err).Msg("source contributed no current data")
	}
	if len(points) == 0 {
		return nil, nil
	}

	forecast := e.fuser.Fuse(points, time.Now().UTC(), 0, lat, lon)
	return &forecast, nil
}

// CompareProviders returns each source's normalized points for the same
// window, unfused, to let a caller inspect provider drift directly.
func (e *Engine) CompareProviders(ctx context.Context, lat, lon float64, hours int) (map[sources.ID][]normalize.Point, error) {
	wanted := e.defaultSources
	points, fetchErrs := e.ingestor.FetchForecast(ctx, lat, lon, hours, wanted)
	for _, fe := range fetchErrs {
		e.log.Warn().Str("source", fe.Source).Str("class", string(fe.Class)).Err(fe.Err).Msg("source unavailable for comparison")
	}

	comparison := make(map[sources.ID][]normalize.Point)
	for _, p := range points {
		comparison[p.Source] = append(comparison[p.Source], p)
	}
	if len(comparison) == 0 {
		return nil, ErrNoForecasts
	}
	return comparison, nil
}

// DetectPatterns runs pattern detection over a fused forecast series. Fused
// forecasts carry no CAPE values, so no CAPE series is passed and storms are
// detected by the precipitation+wind proxy only.
func (e *Engine) DetectPatterns(forecasts []fuse.Forecast) []pattern.Detected {
	points := make([]pattern.ForecastPoint, len(forecasts))
	for i, f := range forecasts {
		points[i] = pattern.ForecastPoint{
			TemperatureC: f.TemperatureC,
			WindSpeedMS:  f.WindSpeedMS,
			PrecipMM:     f.PrecipMM,
		}
	}
	return e.patterns.DetectSeries(points, nil)
}

// GetAlerts builds the operational alert list for a detected-pattern and
// forecast set.
func (e *Engine) GetAlerts(patterns []pattern.Detected, forecasts []fuse.Forecast) []alert.Operational {
	return e.alerts.Generate(patterns, forecasts, nil)
}

// GetRiskScore runs the full pipeline for a coordinate and returns one
// profile's risk score over the next hoursAhead hours.
func (e *Engine) GetRiskScore(ctx context.Context, profile risk.Profile, lat, lon float64, hoursAhead int) (risk.Score, error) {
	forecasts, err := e.GetUnifiedForecast(ctx, lat, lon, hoursAhead, nil)
	if err != nil {
		return risk.Score{}, err
	}

	patterns := e.DetectPatterns(forecasts)
	alerts := e.GetAlerts(patterns, forecasts)
	return e.scorer.Calculate(profile, forecasts, patterns, alerts, hoursAhead), nil
}

// BreakerStates returns a snapshot of every source's circuit breaker state,
// for a health endpoint.
func (e *Engine) BreakerStates() []ingest.BreakerStatus {
	return e.ingestor.Registry().States()
}

func groupByForecastHour(points []normalize.Point) map[int][]normalize.Point {
	grouped := make(map[int][]normalize.Point)
	for _, p := range points {
		grouped[p.ForecastHour] = append(grouped[p.ForecastHour], p)
	}
	return grouped
}
