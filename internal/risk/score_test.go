package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypulsear/meteofusion/internal/alert"
	"github.com/skypulsear/meteofusion/internal/fuse"
	"github.com/skypulsear/meteofusion/internal/pattern"
	"github.com/skypulsear/meteofusion/internal/sources"
)

func fixedNow() time.Time { return time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC) }

func ptrF(f float64) *float64 { return &f }

func TestCalculateMildConditionsYieldVeryLow(t *testing.T) {
	s := New(fixedNow)
	forecasts := []fuse.Forecast{
		{ForecastHour: 1, TemperatureC: ptrF(20), WindSpeedMS: ptrF(3), PrecipMM: ptrF(0)},
	}
	score := s.Calculate(General, forecasts, nil, nil, 6)
	assert.Equal(t, VeryLow, score.Category)
	assert.False(t, score.ActionRequired)
}

func TestCalculateExtremeHeatDrivesPilotHot(t *testing.T) {
	s := New(fixedNow)
	forecasts := []fuse.Forecast{
		{ForecastHour: 1, TemperatureC: ptrF(41)},
	}
	score := s.Calculate(Pilot, forecasts, nil, nil, 6)
	assert.Equal(t, 100, score.TemperatureRisk)
}

func TestCalculateDangerousWindYieldsMaxWindRisk(t *testing.T) {
	s := New(fixedNow)
	forecasts := []fuse.Forecast{
		{ForecastHour: 1, WindSpeedMS: ptrF(22)},
	}
	score := s.Calculate(Pilot, forecasts, nil, nil, 6)
	assert.Equal(t, 100, score.WindRisk)
}

func TestCalculateFallsBackWhenNoForecastInWindow(t *testing.T) {
	s := New(fixedNow)
	forecasts := []fuse.Forecast{
		{ForecastHour: 50, TemperatureC: ptrF(20)},
	}
	score := s.Calculate(General, forecasts, nil, nil, 6)
	assert.NotZero(t, score.ValidForHours)
}

func TestCalculateExtremePatternDrivesPatternRisk(t *testing.T) {
	s := New(fixedNow)
	patterns := []pattern.Detected{
		{PatternType: pattern.SevereConvectiveStorm, RiskLevel: pattern.RiskExtreme, Confidence: 1.0},
	}
	forecasts := []fuse.Forecast{{ForecastHour: 1, TemperatureC: ptrF(20)}}
	score := s.Calculate(Pilot, forecasts, patterns, nil, 6)
	require.GreaterOrEqual(t, score.PatternRisk, 75)
}

func TestStormRiskFromWRFSMNConvectivePrecip(t *testing.T) {
	forecasts := []fuse.Forecast{
		{
			PrecipMM:    ptrF(35),
			HumidityPct: ptrF(80),
			SourcesUsed: map[sources.ID]bool{sources.WRFSMN: true},
		},
	}
	assert.Equal(t, 90.0, stormRisk(forecasts))
}

func TestHailRiskFromSevereWeatherCode(t *testing.T) {
	code := 99
	forecasts := []fuse.Forecast{{WeatherCode: &code}}
	assert.Equal(t, 100.0, hailRisk(forecasts))
}

func TestAlertToRiskMapsLevels(t *testing.T) {
	assert.Equal(t, 100.0, alertToRisk(alert.Operational{Level: alert.Critical}))
	assert.Equal(t, 0.0, alertToRisk(alert.Operational{Level: alert.Normal}))
}

func TestCalculateAllCoversEveryProfile(t *testing.T) {
	s := New(fixedNow)
	forecasts := []fuse.Forecast{{ForecastHour: 1, TemperatureC: ptrF(20)}}
	results := s.CalculateAll(forecasts, nil, nil, 6)
	assert.Len(t, results, len(AllProfiles))
}

func TestIdentifyMainFactorsKeepsTopThree(t *testing.T) {
	w := profileWeights[General]
	factors := identifyMainFactors(90, 90, 90, 90, 90, 90, w)
	assert.Len(t, factors, 3)
}

func TestGenerateRecommendationVeryLow(t *testing.T) {
	assert.Equal(t, "Favorable conditions for your activity.", generateRecommendation(General, VeryLow, nil))
}
