package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skypulsear/meteofusion/internal/normalize"
)

// openMeteoHourlyParams is the ordered list of fields requested from
// Open-Meteo's hourly endpoint.
var openMeteoHourlyParams = []string{
	"temperature_2m", "wind_speed_10m", "wind_direction_10m",
	"precipitation", "cloud_cover", "relative_humidity_2m",
	"pressure_msl", "cape", "weather_code",
}

// openMeteoFieldMap maps each of those field names to a RawRecord key. The
// Normalizer reads all of them except "cape" and "weather_code", which stay
// in the record unused.
var openMeteoFieldMap = map[string]string{
	"temperature_2m":       "temperature",
	"wind_speed_10m":       "wind_speed",
	"wind_direction_10m":   "wind_direction",
	"precipitation":        "precipitation",
	"cloud_cover":          "cloud_cover",
	"relative_humidity_2m": "humidity",
	"pressure_msl":         "pressure",
	"cape":                 "cape",
	"weather_code":         "weather_code",
}

// OpenMeteoClient fetches current and forecast weather from the public
// Open-Meteo API. It neither retries nor trips breakers; the Ingestor wraps
// it with that resilience.
type OpenMeteoClient struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
}

// NewOpenMeteoClient builds a client with a 30s request timeout, matching
// the teacher's HTTP client settings.
func NewOpenMeteoClient(log zerolog.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.open-meteo.com/v1/forecast",
		log:        log,
	}
}

func (c *OpenMeteoClient) GetCurrent(ctx context.Context, lat, lon float64) (normalize.RawRecord, error) {
	records, err := c.fetch(ctx, lat, lon, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func (c *OpenMeteoClient) GetForecast(ctx context.Context, lat, lon float64, hours int) ([]normalize.RawRecord, error) {
	return c.fetch(ctx, lat, lon, hours)
}

func (c *OpenMeteoClient) fetch(ctx context.Context, lat, lon float64, hours int) ([]normalize.RawRecord, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing open-meteo base URL: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("hourly", strings.Join(openMeteoHourlyParams, ","))
	q.Set("wind_speed_unit", "ms")
	q.Set("forecast_hours", strconv.Itoa(hours))
	q.Set("timezone", "UTC")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building open-meteo request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SourceError{Class: ClassTransient, Err: fmt.Errorf("fetching open-meteo forecast: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		class := ClassProviderHTTPError
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			class = ClassTransient
		}
		return nil, &SourceError{Class: class, Err: fmt.Errorf("open-meteo API error %d: %s", resp.StatusCode, string(body))}
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &SourceError{Class: ClassProviderBadPayload, Err: fmt.Errorf("decoding open-meteo response: %w", err)}
	}

	return parseOpenMeteoHourly(raw)
}

func parseOpenMeteoHourly(raw map[string]any) ([]normalize.RawRecord, error) {
	hourly, ok := raw["hourly"].(map[string]any)
	if !ok {
		return nil, &SourceError{Class: ClassProviderBadPayload, Err: fmt.Errorf("no hourly field in open-meteo response")}
	}
	times, ok := hourly["time"].([]any)
	if !ok {
		return nil, &SourceError{Class: ClassProviderBadPayload, Err: fmt.Errorf("no time array in open-meteo response")}
	}

	records := make([]normalize.RawRecord, len(times))
	for i, t := range times {
		rec := normalize.RawRecord{"timestamp": t}
		for _, key := range openMeteoHourlyParams {
			arr, ok := hourly[key].([]any)
			if !ok || i >= len(arr) || arr[i] == nil {
				continue
			}
			rec[openMeteoFieldMap[key]] = arr[i]
		}
		records[i] = rec
	}
	return records, nil
}
