package fuse

import (
	"math"
	"time"

	"github.com/skypulsear/meteofusion/internal/inconsistency"
	"github.com/skypulsear/meteofusion/internal/normalize"
	"github.com/skypulsear/meteofusion/internal/sources"
)

// Fuser combines same-timestamp NormalizedPoints from multiple sources into
// one UnifiedForecast, using the InconsistencyDetector to discount disagreeing
// sources.
type Fuser struct {
	cfg      Config
	detector *inconsistency.Detector
}

// New builds a Fuser over the given weight tables and inconsistency
// detector.
func New(cfg Config, detector *inconsistency.Detector) *Fuser {
	return &Fuser{cfg: cfg, detector: detector}
}

// Fuse combines points, all assumed to share timestamp/forecastHour, into one
// UnifiedForecast. An empty points list returns a zero-confidence forecast
// rather than an error.
func (f *Fuser) Fuse(points []normalize.Point, ts time.Time, forecastHour int, lat, lon float64) Forecast {
	if len(points) == 0 {
		return Forecast{
			Timestamp:        ts,
			ForecastHour:     forecastHour,
			Lat:              lat,
			Lon:              lon,
			OverallConfidence: 0,
			ConfidenceLevel:   ConfidenceVeryLow,
			FusionMethod:      "weighted_average",
		}
	}

	reports := f.detector.Detect(collectVariableValues(points), ts, forecastHour)

	tempValue, tempConf, tempContrib := f.fuseVariable("temperature", extractVariable(points, "temperature"), forecastHour, reports)
	windValue, windConf, windContrib := f.fuseVariable("wind_speed", extractVariable(points, "wind_speed"), forecastHour, reports)
	precipValue, precipConf, precipContrib := f.fuseVariable("precipitation", extractVariable(points, "precipitation"), forecastHour, reports)

	windDir := fuseWindDirection(points)
	cloud := simpleAverage(points, "cloud_cover")
	humidity := simpleAverage(points, "humidity")
	pressure := simpleAverage(points, "pressure")

	confidences := []float64{tempConf, windConf, precipConf}
	overall := (confidences[0] + confidences[1] + confidences[2]) / 3

	var significant []inconsistency.Report
	for _, r := range reports {
		if r.IsSignificant(f.detector.Config()) {
			significant = append(significant, r)
		}
	}
	if len(significant) > 0 {
		penalty := math.Min(0.3, float64(len(significant))*0.1)
		overall = math.Max(0.1, overall-penalty)
	}

	sourcesUsed := make(map[sources.ID]bool, len(points))
	for _, p := range points {
		sourcesUsed[p.Source] = true
	}

	return Forecast{
		Timestamp:    ts,
		ForecastHour: forecastHour,
		Lat:          lat,
		Lon:          lon,

		TemperatureC: tempValue,
		WindSpeedMS:  windValue,
		WindDirDeg:   windDir,
		PrecipMM:     precipValue,
		CloudPct:     cloud,
		HumidityPct:  humidity,
		PressureHPa:  pressure,

		TemperatureConfidence:   tempConf,
		WindConfidence:          windConf,
		PrecipitationConfidence: precipConf,
		OverallConfidence:       overall,
		ConfidenceLevel:         confidenceLevel(overall),

		TemperatureContributions:   tempContrib,
		WindContributions:          windContrib,
		PrecipitationContributions: precipContrib,

		SourcesUsed:      sourcesUsed,
		SourcesAvailable: len(points),

		Inconsistencies:               reports,
		HasSignificantInconsistencies: len(significant) > 0,
		FusionMethod:                  "weighted_average",
	}
}

// fuseVariable weights each contributing source's value by its (inconsistency-
// adjusted) base weight, falling back to FallbackWeight for sources the
// weight table doesn't know about. Contribution weights in the returned list
// are renormalized against the actual total weight used, so they sum to 1.
func (f *Fuser) fuseVariable(variable string, values map[sources.ID]float64, forecastHour int, reports []inconsistency.Report) (*float64, float64, []Contribution) {
	if len(values) == 0 {
		return nil, 0, nil
	}

	base := f.cfg.weightsFor(variable, forecastHour)

	var varReports []inconsistency.Report
	for _, r := range reports {
		if r.Variable == variable {
			varReports = append(varReports, r)
		}
	}
	adjusted := inconsistency.AdjustWeights(base, varReports)

	type rawContrib struct {
		source sources.ID
		value  float64
		weight float64
	}
	var raws []rawContrib
	var weightedSum, totalWeight float64
	for src, value := range values {
		weight, ok := adjusted[src]
		if !ok {
			weight, ok = adjusted[sources.ID(sources.WeightKey(src))]
		}
		if !ok {
			weight = f.cfg.FallbackWeight
		}
		weightedSum += value * weight
		totalWeight += weight
		raws = append(raws, rawContrib{source: src, value: value, weight: weight})
	}

	var fused *float64
	if totalWeight > 0 {
		fused = ptrRound(weightedSum/totalWeight, 2)
	}

	contributions := make([]Contribution, 0, len(raws))
	for _, rc := range raws {
		normWeight := rc.weight
		if totalWeight > 0 {
			normWeight = rc.weight / totalWeight
		}
		contributions = append(contributions, Contribution{
			Source:     rc.source,
			Value:      rc.value,
			Weight:     normWeight,
			Confidence: normWeight,
		})
	}

	confidence := math.Min(1.0, float64(len(values))/3)
	if len(varReports) > 0 {
		var sumSeverity float64
		for _, r := range varReports {
			sumSeverity += r.Severity
		}
		avgSeverity := sumSeverity / float64(len(varReports))
		confidence *= 1 - avgSeverity*0.5
	}

	return fused, round(confidence, 3), contributions
}

func fuseWindDirection(points []normalize.Point) *float64 {
	var sinSum, cosSum float64
	var n int
	for _, p := range points {
		if p.WindDirDeg == nil {
			continue
		}
		rad := *p.WindDirDeg * math.Pi / 180
		sinSum += math.Sin(rad)
		cosSum += math.Cos(rad)
		n++
	}
	if n == 0 {
		return nil
	}
	avg := math.Atan2(sinSum, cosSum) * 180 / math.Pi
	if avg < 0 {
		avg += 360
	}
	r := round(avg, 1)
	if r >= 360 {
		r -= 360
	}
	return &r
}

func simpleAverage(points []normalize.Point, field string) *float64 {
	var sum float64
	var n int
	for _, p := range points {
		v := fieldValue(p, field)
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	return ptrRound(sum/float64(n), 2)
}

func fieldValue(p normalize.Point, field string) *float64 {
	switch field {
	case "cloud_cover":
		return p.CloudPct
	case "humidity":
		return p.HumidityPct
	case "pressure":
		return p.PressureHPa
	default:
		return nil
	}
}

func extractVariable(points []normalize.Point, variable string) map[sources.ID]float64 {
	values := make(map[sources.ID]float64)
	for _, p := range points {
		var v *float64
		switch variable {
		case "temperature":
			v = p.TemperatureC
		case "wind_speed":
			v = p.WindSpeedMS
		case "precipitation":
			v = p.PrecipMM
		}
		if v != nil {
			values[p.Source] = *v
		}
	}
	return values
}

func collectVariableValues(points []normalize.Point) map[string]map[sources.ID]float64 {
	out := map[string]map[sources.ID]float64{
		"temperature":    extractVariable(points, "temperature"),
		"wind_speed":     extractVariable(points, "wind_speed"),
		"precipitation":  extractVariable(points, "precipitation"),
		"cloud_cover":    {},
	}
	for _, p := range points {
		if p.CloudPct != nil {
			out["cloud_cover"][p.Source] = *p.CloudPct
		}
	}
	return out
}

func round(v float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(v*mult) / mult
}

func ptrRound(v float64, places int) *float64 {
	r := round(v, places)
	return &r
}
