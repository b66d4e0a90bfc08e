package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypulsear/meteofusion/internal/fuse"
	"github.com/skypulsear/meteofusion/internal/pattern"
)

func fixedNow() time.Time { return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC) }

func ptrF(f float64) *float64 { return &f }

func TestGenerateWithNoInputReturnsNormalAlert(t *testing.T) {
	s := New(fixedNow)
	alerts := s.Generate(nil, nil, nil)
	require.Len(t, alerts, 1)
	assert.Equal(t, Normal, alerts[0].Level)
}

func TestGenerateFromExtremePatternYieldsCritical(t *testing.T) {
	s := New(fixedNow)
	patterns := []pattern.Detected{
		{PatternType: pattern.ExtremeHeat, RiskLevel: pattern.RiskExtreme, Confidence: 0.9, Description: "hot"},
	}
	alerts := s.Generate(patterns, nil, nil)
	require.NotEmpty(t, alerts)
	assert.Equal(t, Critical, alerts[0].Level)
	assert.Equal(t, "calor extremo", alerts[0].Phenomenon)
}

func TestGenerateLowConfidenceDowngradesLevel(t *testing.T) {
	s := New(fixedNow)
	patterns := []pattern.Detected{
		{PatternType: pattern.Frost, RiskLevel: pattern.RiskHigh, Confidence: 0.3, Description: "cold"},
	}
	alerts := s.Generate(patterns, nil, nil)
	require.NotEmpty(t, alerts)
	assert.Equal(t, Caution, alerts[0].Level)
}

func TestMaxLevelUnknownRiskLevelIsNormal(t *testing.T) {
	s := New(fixedNow)
	level := s.MaxLevel([]pattern.Detected{
		{RiskLevel: pattern.RiskLevel("unknown"), Confidence: 0.9},
	})
	assert.Equal(t, Normal, level)
}

func TestGenerateSortsByLevelDescending(t *testing.T) {
	s := New(fixedNow)
	patterns := []pattern.Detected{
		{PatternType: pattern.Frost, RiskLevel: pattern.RiskLow, Confidence: 0.9, Description: "mild"},
		{PatternType: pattern.ExtremeHeat, RiskLevel: pattern.RiskExtreme, Confidence: 0.9, Description: "hot"},
	}
	alerts := s.Generate(patterns, nil, nil)
	require.Len(t, alerts, 2)
	assert.GreaterOrEqual(t, alerts[0].Level, alerts[1].Level)
}

func TestAnalyzeForecastsFlagsHeavyRainInNearWindow(t *testing.T) {
	s := New(fixedNow)
	forecasts := []fuse.Forecast{
		{ForecastHour: 1, PrecipMM: ptrF(40)},
	}
	alerts := s.Generate(nil, forecasts, nil)
	require.NotEmpty(t, alerts)
	assert.Equal(t, Critical, alerts[0].Level)
	assert.Equal(t, "lluvia intensa", alerts[0].Phenomenon)
}

func TestAnalyzeForecastsFrostFarWindowIsCautionOnly(t *testing.T) {
	s := New(fixedNow)
	forecasts := []fuse.Forecast{
		{ForecastHour: 30, TemperatureC: ptrF(-2)},
	}
	alerts := s.Generate(nil, forecasts, nil)
	require.NotEmpty(t, alerts)
	assert.Equal(t, Caution, alerts[0].Level)
}

func TestDeduplicateKeepsHighestLevelPerPhenomenon(t *testing.T) {
	alerts := []Operational{
		{Phenomenon: "frost", Level: Caution},
		{Phenomenon: "frost", Level: Alert},
	}
	out := deduplicate(alerts)
	require.Len(t, out, 1)
	assert.Equal(t, Alert, out[0].Level)
}

func TestGenerateUsesExplicitCurrentTime(t *testing.T) {
	s := New(fixedNow)
	explicit := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	patterns := []pattern.Detected{
		{PatternType: pattern.HeatWave, RiskLevel: pattern.RiskHigh, Confidence: 0.9, Description: "hot"},
	}
	alerts := s.Generate(patterns, nil, &explicit)
	require.NotEmpty(t, alerts)
	assert.Equal(t, explicit, alerts[0].GeneratedAt)
}

func TestNewWithConfigAppliesCustomWindowThresholds(t *testing.T) {
	cfg := Config{PrecipHeavyMM: 5, WindStrongMS: 100, TempHotC: 100, TempFreezingC: -50}
	s := NewWithConfig(cfg, fixedNow)
	forecasts := []fuse.Forecast{
		{ForecastHour: 1, PrecipMM: ptrF(6)},
	}
	alerts := s.Generate(nil, forecasts, nil)
	found := false
	for _, a := range alerts {
		if a.Phenomenon == "lluvia intensa" {
			found = true
		}
	}
	assert.True(t, found, "lowered precip threshold should flag 6mm as lluvia intensa")
}
