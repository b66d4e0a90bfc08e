package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypulsear/meteofusion/internal/alert"
	"github.com/skypulsear/meteofusion/internal/engine"
	"github.com/skypulsear/meteofusion/internal/fuse"
	"github.com/skypulsear/meteofusion/internal/inconsistency"
	"github.com/skypulsear/meteofusion/internal/ingest"
	"github.com/skypulsear/meteofusion/internal/logging"
	"github.com/skypulsear/meteofusion/internal/metrics"
	"github.com/skypulsear/meteofusion/internal/normalize"
	"github.com/skypulsear/meteofusion/internal/pattern"
	"github.com/skypulsear/meteofusion/internal/risk"
	"github.com/skypulsear/meteofusion/internal/sources"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logging.Nop()
	clients := map[sources.ID]ingest.ProviderClient{
		sources.WindyECMWF: &ingest.StubClient{Forecast: []normalize.RawRecord{
			{"temperature": 22.0, "timestamp": "2026-01-15T00:00"},
		}},
	}
	norm := normalize.New(normalize.DefaultConfig(), log)
	ingestor := ingest.New(ingest.DefaultConfig(), clients, norm, ingest.NewRegistry(), log)
	fuser := fuse.New(fuse.DefaultConfig(), inconsistency.New(inconsistency.DefaultConfig()))
	patterns := pattern.New(pattern.DefaultThresholds(), nil)
	alerts := alert.New(nil)
	scorer := risk.New(nil)
	eng := engine.New(ingestor, fuser, patterns, alerts, scorer, []sources.ID{sources.WindyECMWF}, log)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := New(eng, m, reg, log)
	return httptest.NewServer(srv.echo)
}

func TestHandleForecastReturnsUnifiedForecasts(t *testing.T) {
	ts := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/forecast?lat=-34.6&lon=-58.4&hours=3")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["forecasts"])
}

func TestHandleForecastRejectsOutOfRangeLat(t *testing.T) {
	ts := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/forecast?lat=95&lon=-58.4")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleRiskReturnsScoreForDefaultProfile(t *testing.T) {
	ts := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/risk?lat=-34.6&lon=-58.4&hours_ahead=6")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var score risk.Score
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&score))
	assert.Equal(t, risk.General, score.Profile)
}

func TestHandleRiskRejectsUnknownProfile(t *testing.T) {
	ts := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/risk?lat=-34.6&lon=-58.4&profile=astronaut")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleBreakerHealthReportsRegisteredSources(t *testing.T) {
	ts := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health/breakers")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	ts := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpointReportsBreakerStateAfterHealthCheck(t *testing.T) {
	ts := testServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health/breakers")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "meteofusion_ingest_breaker_state")
}
