package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skypulsear/meteofusion/internal/logging"
)

const sampleOpenMeteoBody = `{
  "hourly": {
    "time": ["2026-01-15T00:00", "2026-01-15T01:00"],
    "temperature_2m": [20.5, 21.0],
    "wind_speed_10m": [5.0, null],
    "precipitation": [0.0, 1.2]
  }
}`

func TestOpenMeteoClientParsesForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleOpenMeteoBody))
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(logging.Nop())
	c.baseURL = srv.URL

	records, err := c.GetForecast(context.Background(), -34.6, -58.4, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 20.5, records[0]["temperature"])
	assert.Nil(t, records[1]["wind_speed"])
}

func TestOpenMeteoClientGetCurrentReturnsFirstRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleOpenMeteoBody))
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(logging.Nop())
	c.baseURL = srv.URL

	rec, err := c.GetCurrent(context.Background(), -34.6, -58.4)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 20.5, rec["temperature"])
}

func TestOpenMeteoClientClassifiesServerErrorAsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(logging.Nop())
	c.baseURL = srv.URL

	_, err := c.GetForecast(context.Background(), 0, 0, 1)
	require.Error(t, err)
	assert.Equal(t, ClassTransient, classOf(err))
}

func TestOpenMeteoClientClassifiesBadPayloadAsBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not_hourly": true}`))
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(logging.Nop())
	c.baseURL = srv.URL

	_, err := c.GetForecast(context.Background(), 0, 0, 1)
	require.Error(t, err)
	assert.Equal(t, ClassProviderBadPayload, classOf(err))
}
