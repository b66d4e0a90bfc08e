// Package metrics exposes the engine's Prometheus collectors: fetch
// latency, breaker trips, alert levels issued, and risk scores computed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skypulsear/meteofusion/internal/ingest"
)

const namespace = "meteofusion"

// Registry holds the module's collectors, each updated through its Observe
// or Set method. A zero-value
// Registry is unusable; build one with New.
type Registry struct {
	FetchLatency  *prometheus.HistogramVec
	FetchErrors   *prometheus.CounterVec
	BreakerTrips  *prometheus.CounterVec
	BreakerState  *prometheus.GaugeVec
	AlertsIssued  *prometheus.CounterVec
	RiskScores    *prometheus.HistogramVec
	PatternsFound *prometheus.CounterVec
}

// breakerStateValue maps a CircuitBreaker's String() state to the gauge
// value meteofusion_ingest_breaker_state reports: 0 CLOSED, 1 HALF_OPEN, 2
// OPEN.
func breakerStateValue(state string) float64 {
	switch state {
	case "OPEN":
		return 2
	case "HALF_OPEN":
		return 1
	default:
		return 0
	}
}

// New builds a Registry and registers every collector against reg.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		FetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching data from one provider.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),

		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "fetch_errors_total",
			Help:      "Provider fetches that returned an error, by source and error class.",
		}, []string{"source", "class"}),

		BreakerTrips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "breaker_trips_total",
			Help:      "Circuit breaker transitions into the OPEN state, by source.",
		}, []string{"source"}),

		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "breaker_state",
			Help:      "Current circuit breaker state by source: 0=CLOSED, 1=HALF_OPEN, 2=OPEN.",
		}, []string{"source"}),

		AlertsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "operational_alerts_total",
			Help:      "Operational alerts generated, by level.",
		}, []string{"level"}),

		RiskScores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "score_value",
			Help:      "Computed risk score (0-5), by user profile.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}, []string{"profile"}),

		PatternsFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pattern",
			Name:      "detected_total",
			Help:      "Meteorological patterns detected, by pattern type.",
		}, []string{"pattern_type"}),
	}

	reg.MustRegister(r.FetchLatency, r.FetchErrors, r.BreakerTrips, r.BreakerState, r.AlertsIssued, r.RiskScores, r.PatternsFound)
	return r
}

// SetBreakerStates overwrites the breaker_state gauge with a fresh snapshot
// from the ingestor's breaker registry. Sources absent from states keep
// their last reported value.
func (r *Registry) SetBreakerStates(states []ingest.BreakerStatus) {
	for _, s := range states {
		r.BreakerState.WithLabelValues(s.Name).Set(breakerStateValue(s.State))
	}
}

// ObserveFetch records one provider fetch's latency and, on failure, its
// error class.
func (r *Registry) ObserveFetch(source string, seconds float64, errClass string) {
	r.FetchLatency.WithLabelValues(source).Observe(seconds)
	if errClass != "" {
		r.FetchErrors.WithLabelValues(source, errClass).Inc()
	}
}

// ObserveBreakerTrip records a circuit breaker opening for source.
func (r *Registry) ObserveBreakerTrip(source string) {
	r.BreakerTrips.WithLabelValues(source).Inc()
}

// ObserveAlert records one operational alert's level name.
func (r *Registry) ObserveAlert(levelName string) {
	r.AlertsIssued.WithLabelValues(levelName).Inc()
}

// ObserveRiskScore records one computed risk score for profile.
func (r *Registry) ObserveRiskScore(profile string, value float64) {
	r.RiskScores.WithLabelValues(profile).Observe(value)
}

// ObservePattern records one detected pattern's type.
func (r *Registry) ObservePattern(patternType string) {
	r.PatternsFound.WithLabelValues(patternType).Inc()
}
