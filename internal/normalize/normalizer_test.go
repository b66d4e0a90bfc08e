package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypulsear/meteofusion/internal/logging"
	"github.com/skypulsear/meteofusion/internal/sources"
)

func newTestNormalizer() *Normalizer {
	return New(DefaultConfig(), logging.Nop())
}

func TestNormalizeOneConvertsKelvin(t *testing.T) {
	n := newTestNormalizer()
	p := n.NormalizeOne(RawRecord{"temperature": 300.0}, 0, sources.WRFSMN)
	require.NotNil(t, p.TemperatureC)
	assert.InDelta(t, 26.85, *p.TemperatureC, 0.01)
}

func TestNormalizeOneLeavesCelsiusAlone(t *testing.T) {
	n := newTestNormalizer()
	p := n.NormalizeOne(RawRecord{"temperature": 21.5}, 0, sources.WRFSMN)
	require.NotNil(t, p.TemperatureC)
	assert.InDelta(t, 21.5, *p.TemperatureC, 0.01)
}

func TestNormalizeOneClampsTemperature(t *testing.T) {
	n := newTestNormalizer()
	p := n.NormalizeOne(RawRecord{"temperature": 500.0}, 0, sources.WRFSMN) // 500-273.15 = 226.85, above ceiling
	require.NotNil(t, p.TemperatureC)
	assert.Equal(t, 60.0, *p.TemperatureC)
}

func TestNormalizeOneConvertsKmhWindSpeed(t *testing.T) {
	n := newTestNormalizer()
	p := n.NormalizeOne(RawRecord{"wind_speed": 72.0}, 0, sources.WRFSMN) // 72 km/h -> 20 m/s
	require.NotNil(t, p.WindSpeedMS)
	assert.InDelta(t, 20.0, *p.WindSpeedMS, 0.01)
}

func TestNormalizeOneWrapsWindDirection(t *testing.T) {
	n := newTestNormalizer()
	p := n.NormalizeOne(RawRecord{"wind_direction": -30.0}, 0, sources.WRFSMN)
	require.NotNil(t, p.WindDirDeg)
	assert.InDelta(t, 330.0, *p.WindDirDeg, 0.01)
}

func TestNormalizeOneWindComponentsComputeSpeedAndBearing(t *testing.T) {
	n := newTestNormalizer()
	p := n.NormalizeOne(RawRecord{"wind_u-surface": 0.0, "wind_v-surface": -10.0}, 0, sources.WindyGFS)
	require.NotNil(t, p.WindSpeedMS)
	require.NotNil(t, p.WindDirDeg)
	assert.InDelta(t, 10.0, *p.WindSpeedMS, 0.01)
	assert.InDelta(t, 0.0, math.Mod(*p.WindDirDeg, 360), 1.0)
}

func TestNormalizeOneMissingFieldsStayNil(t *testing.T) {
	n := newTestNormalizer()
	p := n.NormalizeOne(RawRecord{}, 0, sources.WRFSMN)
	assert.Nil(t, p.TemperatureC)
	assert.Nil(t, p.WindSpeedMS)
	assert.Nil(t, p.PrecipMM)
}

func TestNormalizeOneCloudCoverSumsBandsAndClamps(t *testing.T) {
	n := newTestNormalizer()
	p := n.NormalizeOne(RawRecord{"lclouds-surface": 50.0, "mclouds-surface": 40.0, "hclouds-surface": 30.0}, 0, sources.WindyECMWF)
	require.NotNil(t, p.CloudPct)
	assert.Equal(t, 100.0, *p.CloudPct)
}

func TestNormalizeOnePressurePaToHPa(t *testing.T) {
	n := newTestNormalizer()
	p := n.NormalizeOne(RawRecord{"PSFC": 101325.0}, 0, sources.WRFSMN)
	require.NotNil(t, p.PressureHPa)
	assert.InDelta(t, 1013.25, *p.PressureHPa, 0.01)
}

func TestNormalizeBatchComputesForecastHourRelativeToFirst(t *testing.T) {
	n := newTestNormalizer()
	records := []RawRecord{
		{"timestamp": "2026-01-01T00:00:00Z", "temperature": 20.0},
		{"timestamp": "2026-01-01T03:00:00Z", "temperature": 21.0},
		{"timestamp": "2026-01-01T06:00:00Z", "temperature": 22.0},
	}
	points := n.NormalizeBatch(records, sources.WRFSMN, -34.6, -58.4)
	require.Len(t, points, 3)
	assert.Equal(t, 0, points[0].ForecastHour)
	assert.Equal(t, 3, points[1].ForecastHour)
	assert.Equal(t, 6, points[2].ForecastHour)
	for _, p := range points {
		assert.Equal(t, -34.6, p.Lat)
		assert.Equal(t, -58.4, p.Lon)
	}
}

func TestNormalizeBatchEmptyReturnsNil(t *testing.T) {
	n := newTestNormalizer()
	assert.Nil(t, n.NormalizeBatch(nil, sources.WRFSMN, 0, 0))
}
