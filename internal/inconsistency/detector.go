// Package inconsistency measures cross-source disagreement for each
// meteorological variable and produces severity-scored reports the Fuser
// uses to discount outlying sources.
package inconsistency

import (
	"math"
	"time"

	"github.com/skypulsear/meteofusion/internal/sources"
)

// Report describes one variable's cross-source dispersion at one timestamp.
type Report struct {
	Variable            string
	Timestamp           time.Time
	ForecastHour        int
	SourceValues        map[sources.ID]float64
	Mean                float64
	StdDev              float64
	MaxDeviation        float64
	CoefficientOfVar    float64
	OutlierSources      map[sources.ID]bool
	Severity            float64
}

// IsSignificant reports whether r's severity exceeds the detector's
// significance threshold.
func (r Report) IsSignificant(cfg Config) bool {
	return r.Severity > cfg.SignificantThreshold
}

// Detector analyzes a set of same-timestamp source values per variable.
type Detector struct {
	cfg Config
}

// New builds a Detector with the given thresholds.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Config returns the detector's thresholds, e.g. for callers that need the
// significance cutoff to classify a Report themselves.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect analyzes temperature, wind_speed, precipitation, and cloud_cover
// across sourceValues, returning one Report per variable whose severity
// exceeds MinReportSeverity. Fewer than two contributing sources yields no
// reports: dispersion is undefined with a single data point.
func (d *Detector) Detect(sourceValues map[string]map[sources.ID]float64, ts time.Time, forecastHour int) []Report {
	var reports []Report
	variables := []struct {
		name string
		th   VariableThresholds
	}{
		{"temperature", d.cfg.Temperature},
		{"wind_speed", d.cfg.WindSpeed},
		{"precipitation", d.cfg.Precip},
		{"cloud_cover", d.cfg.CloudCover},
	}
	for _, v := range variables {
		values, ok := sourceValues[v.name]
		if !ok || len(values) < 2 {
			continue
		}
		report := d.analyzeVariable(v.name, values, v.th, ts, forecastHour)
		if report.Severity > d.cfg.MinReportSeverity {
			reports = append(reports, report)
		}
	}
	return reports
}

func (d *Detector) analyzeVariable(name string, values map[sources.ID]float64, th VariableThresholds, ts time.Time, forecastHour int) Report {
	mean, std := meanStdDev(values)
	minV, maxV := minMax(values)
	maxDeviation := maxAbsDeviation(values, mean)
	cv := 0.0
	if mean != 0 {
		cv = std / math.Abs(mean)
	}

	outliers := findOutliers(values, mean, std, th.OutlierFactor)
	severity := calculateSeverity(std, maxV-minV, cv, th)

	return Report{
		Variable:         name,
		Timestamp:        ts,
		ForecastHour:     forecastHour,
		SourceValues:     values,
		Mean:             mean,
		StdDev:           std,
		MaxDeviation:     maxDeviation,
		CoefficientOfVar: cv,
		OutlierSources:   outliers,
		Severity:         severity,
	}
}

func meanStdDev(values map[sources.ID]float64) (mean, std float64) {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / n
	if len(values) < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range values {
		diff := v - mean
		sq += diff * diff
	}
	// Sample standard deviation (n-1 denominator), matching the original's
	// use of statistics.stdev.
	std = math.Sqrt(sq / (n - 1))
	return mean, std
}

func minMax(values map[sources.ID]float64) (min, max float64) {
	first := true
	for _, v := range values {
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func maxAbsDeviation(values map[sources.ID]float64, mean float64) float64 {
	var maxDev float64
	for _, v := range values {
		dev := math.Abs(v - mean)
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev
}

func findOutliers(values map[sources.ID]float64, mean, std, outlierFactor float64) map[sources.ID]bool {
	if std == 0 {
		return nil
	}
	outliers := make(map[sources.ID]bool)
	for src, v := range values {
		if math.Abs(v-mean) > outlierFactor*std {
			outliers[src] = true
		}
	}
	if len(outliers) == 0 {
		return nil
	}
	return outliers
}

// calculateSeverity blends normalized std, range, and coefficient-of-variation
// signals into a single [0,1] score, weighted 0.4/0.4/0.2 as in the original.
func calculateSeverity(std, rng, cv float64, th VariableThresholds) float64 {
	stdSeverity := math.Min(1.0, std/th.MaxStd)
	rangeSeverity := math.Min(1.0, rng/th.MaxRange)
	cvSeverity := math.Min(1.0, cv/0.5)
	severity := 0.4*stdSeverity + 0.4*rangeSeverity + 0.2*cvSeverity
	if severity > 1.0 {
		severity = 1.0
	}
	return math.Round(severity*1000) / 1000
}

// AdjustWeights discounts each source's base weight proportionally to how
// often it was flagged as an outlier across reports, then renormalizes so the
// weights sum back to 1.
func AdjustWeights(baseWeights map[sources.ID]float64, reports []Report) map[sources.ID]float64 {
	outlierCount := make(map[sources.ID]int)
	for _, r := range reports {
		for src := range r.OutlierSources {
			outlierCount[src]++
		}
	}

	adjusted := make(map[sources.ID]float64, len(baseWeights))
	var total float64
	for src, w := range baseWeights {
		factor := 1.0 - float64(outlierCount[src])*0.1
		if factor < 0.5 {
			factor = 0.5
		}
		nw := w * factor
		adjusted[src] = nw
		total += nw
	}
	if total <= 0 {
		return baseWeights
	}
	for src, w := range adjusted {
		adjusted[src] = w / total
	}
	return adjusted
}
