package normalize

import (
	"strconv"
	"strings"
	"time"
)

// RawRecord is a key-addressable bag of whatever fields a provider response
// happened to carry. Keys are looked up in the priority order documented on
// each accessor, first-present-key-wins, mirroring the provider payloads the
// pipeline has to tolerate.
type RawRecord map[string]any

func (r RawRecord) first(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Temperature returns the raw temperature value, unconverted.
func (r RawRecord) Temperature() (float64, bool) {
	v, ok := r.first("temperature", "temp", "temperature_celsius", "T2")
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// WindSpeed returns the raw wind speed value, unconverted.
func (r RawRecord) WindSpeed() (float64, bool) {
	v, ok := r.first("wind_speed", "wind", "wind_speed_ms", "magViento10")
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// WindDirection returns the raw wind direction in degrees, unnormalized.
func (r RawRecord) WindDirection() (float64, bool) {
	v, ok := r.first("wind_direction", "wind_dir", "wind_direction_deg")
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// WindComponents returns Windy-style u/v surface wind components, if present.
func (r RawRecord) WindComponents() (u, v float64, ok bool) {
	uv, okU := r.first("wind_u-surface")
	vv, okV := r.first("wind_v-surface")
	if !okU || !okV {
		return 0, 0, false
	}
	uf, okU2 := toFloat(uv)
	vf, okV2 := toFloat(vv)
	if !okU2 || !okV2 {
		return 0, 0, false
	}
	return uf, vf, true
}

// Precipitation returns the raw precipitation value in millimeters.
func (r RawRecord) Precipitation() (float64, bool) {
	v, ok := r.first("precipitation", "precip", "precipitation_mm", "rain", "past3hprecip-surface", "PP")
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// CloudCover returns the raw cloud cover percentage, summing the low/mid/high
// bands when no single aggregate field is present.
func (r RawRecord) CloudCover() (float64, bool) {
	v, ok := r.first("cloud_cover", "clouds", "cloudiness", "cloud_cover_pct")
	if ok {
		return toFloat(v)
	}
	low, okL := r.first("lclouds-surface")
	mid, okM := r.first("mclouds-surface")
	high, okH := r.first("hclouds-surface")
	if !okL && !okM && !okH {
		return 0, false
	}
	var total float64
	for _, band := range []any{low, mid, high} {
		if band == nil {
			continue
		}
		if f, ok := toFloat(band); ok {
			total += f
		}
	}
	if total > 100 {
		total = 100
	}
	return total, true
}

// Humidity returns the raw relative humidity percentage.
func (r RawRecord) Humidity() (float64, bool) {
	v, ok := r.first("humidity", "humidity_pct", "relative_humidity", "HR2", "rh-surface")
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Pressure returns the raw pressure, converting Pa to hPa when the value
// looks like it was given in Pa (> 50000).
func (r RawRecord) Pressure() (float64, bool) {
	v, ok := r.first("pressure", "pressure_hpa", "sea_level_pressure", "PSFC")
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	if f > 50000 {
		f /= 100
	}
	return f, true
}

// Timestamp returns the record's timestamp, falling back to now(UTC) when
// absent or unparseable.
func (r RawRecord) Timestamp() time.Time {
	v, ok := r.first("timestamp", "time", "datetime", "ts")
	if !ok {
		return time.Now().UTC()
	}
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case float64:
		return epochMillisOrSeconds(t)
	case int64:
		return epochMillisOrSeconds(float64(t))
	case string:
		s := t
		if strings.HasSuffix(s, "Z") {
			s = strings.TrimSuffix(s, "Z") + "+00:00"
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC()
			}
		}
		return time.Now().UTC()
	default:
		return time.Now().UTC()
	}
}

func epochMillisOrSeconds(v float64) time.Time {
	if v > 1e12 {
		return time.UnixMilli(int64(v)).UTC()
	}
	return time.Unix(int64(v), 0).UTC()
}
