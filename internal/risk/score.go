package risk

import (
	"math"
	"time"

	"github.com/skypulsear/meteofusion/internal/alert"
	"github.com/skypulsear/meteofusion/internal/fuse"
	"github.com/skypulsear/meteofusion/internal/pattern"
	"github.com/skypulsear/meteofusion/internal/sources"
)

// Category buckets a Score's 0-5 value into a named risk tier.
type Category string

const (
	VeryLow  Category = "very_low"
	Low      Category = "low"
	Moderate Category = "moderate"
	High     Category = "high"
	VeryHigh Category = "very_high"
	Extreme  Category = "extreme"
)

// Score is one profile's computed risk for a forecast window.
type Score struct {
	Value    float64
	Category Category

	Profile     Profile
	ProfileName string

	TemperatureRisk   int
	WindRisk          int
	PrecipitationRisk int
	StormRisk         int
	HailRisk          int
	PatternRisk       int
	MaxRisk           int

	ApparentTemperature *float64

	MainRiskFactors []string

	Recommendation string
	ActionRequired bool

	ValidForHours int
	CalculatedAt  time.Time
}

// Scorer computes per-profile Scores from fused forecasts, detected
// patterns, and operational alerts.
type Scorer struct {
	now func() time.Time
}

// New builds a Scorer. now defaults to time.Now if nil.
func New(now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now}
}

// Calculate scores profile over forecasts within the next hoursAhead hours
// (falling back to the first hoursAhead entries if none fall in that
// window), informed by detected patterns and alerts.
func (s *Scorer) Calculate(profile Profile, forecasts []fuse.Forecast, patterns []pattern.Detected, alerts []alert.Operational, hoursAhead int) Score {
	relevant := make([]fuse.Forecast, 0, len(forecasts))
	for _, f := range forecasts {
		if f.ForecastHour <= hoursAhead {
			relevant = append(relevant, f)
		}
	}
	if len(relevant) == 0 {
		limit := hoursAhead
		if limit < 1 {
			limit = 1
		}
		if limit > len(forecasts) {
			limit = len(forecasts)
		}
		relevant = forecasts[:limit]
	}

	tempRisk, apparentTemp := temperatureRisk(profile, relevant)
	windRisk := windRisk(profile, relevant)
	precipRisk := precipitationRisk(profile, relevant)
	stormRisk := stormRisk(relevant)
	hailRisk := hailRisk(relevant)
	patternRisk := patternRisk(profile, patterns, alerts)

	w := profileWeights[profile]
	weighted := tempRisk*w.temperature + windRisk*w.wind + precipRisk*w.precipitation +
		patternRisk*w.patterns + stormRisk*0.2 + hailRisk*0.2

	maxRisk := maxOf6(tempRisk, windRisk, precipRisk, patternRisk, stormRisk, hailRisk)
	combined := weighted*0.6 + maxRisk*0.4
	final := math.Min(5.0, roundTo(combined/100*5, 1))

	category := scoreToCategory(final)
	factors := identifyMainFactors(tempRisk, windRisk, precipRisk, patternRisk, stormRisk, hailRisk, w)
	recommendation := generateRecommendation(profile, category, factors)

	return Score{
		Value:               final,
		Category:            category,
		Profile:             profile,
		ProfileName:         profileNames[profile],
		TemperatureRisk:     int(math.Round(tempRisk)),
		WindRisk:            int(math.Round(windRisk)),
		PrecipitationRisk:   int(math.Round(precipRisk)),
		StormRisk:           int(math.Round(stormRisk)),
		HailRisk:            int(math.Round(hailRisk)),
		PatternRisk:         int(math.Round(patternRisk)),
		MaxRisk:             int(math.Round(maxRisk)),
		ApparentTemperature: apparentTemp,
		MainRiskFactors:     factors,
		Recommendation:      recommendation,
		ActionRequired:      category == VeryHigh || category == Extreme,
		ValidForHours:       hoursAhead,
		CalculatedAt:        s.now(),
	}
}

// CalculateAll scores every supported profile over the same inputs.
func (s *Scorer) CalculateAll(forecasts []fuse.Forecast, patterns []pattern.Detected, alerts []alert.Operational, hoursAhead int) map[Profile]Score {
	out := make(map[Profile]Score, len(AllProfiles))
	for _, p := range AllProfiles {
		out[p] = s.Calculate(p, forecasts, patterns, alerts, hoursAhead)
	}
	return out
}

func temperatureRisk(profile Profile, forecasts []fuse.Forecast) (float64, *float64) {
	var temps []float64
	var apparent []float64
	for _, f := range forecasts {
		if f.TemperatureC != nil {
			temps = append(temps, *f.TemperatureC)
		}
		if f.ApparentTemperatureC != nil {
			apparent = append(apparent, *f.ApparentTemperatureC)
		}
	}
	if len(temps) == 0 {
		return 0, nil
	}

	th := tempThresholdTable[profile]
	maxTemp, minTemp := maxOf(temps), minOf(temps)

	effectiveMax, effectiveMin := maxTemp, minTemp
	var apparentOut *float64
	if len(apparent) > 0 {
		apparentOut = ptr(apparent[0])
		if m := maxOf(apparent); m > effectiveMax {
			effectiveMax = m
		}
		if m := minOf(apparent); m < effectiveMin {
			effectiveMin = m
		}
	}

	var riskVal float64
	if effectiveMax > th.optimalMax {
		excess := effectiveMax - th.optimalMax
		hotRange := th.hot - th.optimalMax
		base := math.Min(100, (excess/hotRange)*100)
		if effectiveMax > 32 {
			base = math.Min(100, base*1.3)
		}
		riskVal = math.Max(riskVal, base)
	}
	if effectiveMin < th.optimalMin {
		deficit := th.optimalMin - effectiveMin
		coldRange := th.optimalMin - th.cold
		riskVal = math.Max(riskVal, math.Min(100, (deficit/coldRange)*100))
	}
	if effectiveMax >= th.hot {
		riskVal = 100
	}
	if effectiveMin <= th.cold {
		riskVal = math.Max(riskVal, 90)
	}
	return riskVal, apparentOut
}

func windRisk(profile Profile, forecasts []fuse.Forecast) float64 {
	var winds []float64
	for _, f := range forecasts {
		if f.WindSpeedMS != nil {
			winds = append(winds, *f.WindSpeedMS)
		}
	}
	if len(winds) == 0 {
		return 0
	}
	th := windThresholdTable[profile]
	maxWind := maxOf(winds)

	switch {
	case maxWind >= th.dangerous:
		return 100
	case maxWind >= th.strong:
		excess := maxWind - th.strong
		rng := th.dangerous - th.strong
		return 60 + (excess/rng)*40
	case maxWind >= th.moderate:
		excess := maxWind - th.moderate
		rng := th.strong - th.moderate
		return 20 + (excess/rng)*40
	default:
		return 0
	}
}

func precipitationRisk(profile Profile, forecasts []fuse.Forecast) float64 {
	var precips []float64
	for _, f := range forecasts {
		if f.PrecipMM != nil {
			precips = append(precips, *f.PrecipMM)
		}
	}
	if len(precips) == 0 {
		return 0
	}
	th := precipThresholdTable[profile]

	var total float64
	for _, p := range precips {
		total += p
	}
	effective := math.Max(total/float64(len(precips)), maxOf(precips))

	switch {
	case effective >= th.heavy:
		return 100
	case effective >= th.moderate:
		excess := effective - th.moderate
		rng := th.heavy - th.moderate
		return 50 + (excess/rng)*50
	case effective >= th.light:
		excess := effective - th.light
		rng := th.moderate - th.light
		return 10 + (excess/rng)*40
	default:
		return 0
	}
}

// stormRisk estimates electrical-storm risk from WMO weather codes where
// available, falling back to a WRF-SMN convective-precipitation proxy and
// finally a generic precipitation+humidity proxy.
func stormRisk(forecasts []fuse.Forecast) float64 {
	var maxRisk float64
	for _, f := range forecasts {
		if f.WeatherCode != nil {
			switch *f.WeatherCode {
			case 99:
				return 100
			case 96:
				maxRisk = math.Max(maxRisk, 80)
			case 95:
				maxRisk = math.Max(maxRisk, 60)
			}
		}

		hasWRFSMN := f.SourcesUsed[sources.WRFSMN]
		precip := valueOr(f.PrecipMM, 0)
		humidity := valueOr(f.HumidityPct, 0)

		switch {
		case hasWRFSMN && precip >= 10 && humidity >= 70:
			switch {
			case precip >= 30:
				maxRisk = math.Max(maxRisk, 90)
			case precip >= 20:
				maxRisk = math.Max(maxRisk, 75)
			default:
				maxRisk = math.Max(maxRisk, 55)
			}
		case hasWRFSMN && precip >= 5 && humidity >= 75:
			maxRisk = math.Max(maxRisk, 40)
		case !hasWRFSMN:
			temp := valueOr(f.TemperatureC, 25)
			switch {
			case precip >= 15 && humidity >= 80 && temp >= 15 && temp <= 35:
				maxRisk = math.Max(maxRisk, 50)
			case precip >= 8 && humidity >= 75 && temp >= 18 && temp <= 32:
				maxRisk = math.Max(maxRisk, 30)
			}
		}
	}
	return maxRisk
}

// hailRisk reads WMO hail-bearing weather codes, falling back to a
// storm+temperature proxy. Returns on the first forecast carrying a usable
// signal, matching the original's early-return behavior.
func hailRisk(forecasts []fuse.Forecast) float64 {
	for _, f := range forecasts {
		if f.WeatherCode != nil {
			switch *f.WeatherCode {
			case 99:
				return 100
			case 96:
				return 70
			case 77:
				return 40
			case 95:
				temp := valueOr(f.TemperatureC, 25)
				if temp >= 15 && temp <= 30 {
					return 30
				}
			}
		}
	}
	return 0
}

func patternRisk(profile Profile, patterns []pattern.Detected, alerts []alert.Operational) float64 {
	if len(patterns) == 0 && len(alerts) == 0 {
		return 0
	}
	var maxRisk float64
	for _, p := range patterns {
		if r := patternToRisk(p, profile); r > maxRisk {
			maxRisk = r
		}
	}
	for _, a := range alerts {
		if r := alertToRisk(a); r > maxRisk {
			maxRisk = r
		}
	}
	return maxRisk
}

var baseRiskByLevel = map[pattern.RiskLevel]float64{
	pattern.RiskLow:      20,
	pattern.RiskModerate: 45,
	pattern.RiskHigh:     75,
	pattern.RiskExtreme:  100,
}

func patternToRisk(p pattern.Detected, profile Profile) float64 {
	base := baseRiskByLevel[p.RiskLevel]
	multiplier := 1.0

	switch p.PatternType {
	case pattern.SevereConvectiveStorm:
		switch profile {
		case Pilot, OutdoorEvent, OutdoorSports, Tourism:
			multiplier = 1.3
		}
	case pattern.HeatWave, pattern.ExtremeHeat:
		switch profile {
		case OutdoorSports, Construction:
			multiplier = 1.2
		}
	case pattern.ColdWave, pattern.Frost:
		if profile == Farmer {
			multiplier = 1.3
		}
	}

	return math.Min(100, base*multiplier*p.Confidence)
}

var alertRiskByLevel = map[alert.Level]float64{
	alert.Normal:    0,
	alert.Attention: 20,
	alert.Caution:   45,
	alert.Alert:     75,
	alert.Critical:  100,
}

func alertToRisk(a alert.Operational) float64 {
	return alertRiskByLevel[a.Level]
}

func scoreToCategory(score float64) Category {
	switch {
	case score >= 4:
		return Extreme
	case score >= 3:
		return VeryHigh
	case score >= 2:
		return Moderate
	case score >= 1:
		return Low
	default:
		return VeryLow
	}
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf6(a, b, c, d, e, f float64) float64 {
	m := a
	for _, v := range []float64{b, c, d, e, f} {
		if v > m {
			m = v
		}
	}
	return m
}

func roundTo(v float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(v*mult) / mult
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func ptr(f float64) *float64 { return &f }
