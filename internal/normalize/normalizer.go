package normalize

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/skypulsear/meteofusion/internal/sources"
)

// Normalizer maps provider-native RawRecords to canonical Points, performing
// unit conversion and source-enum mapping. It never returns an error:
// unparseable individual fields are simply left nil.
type Normalizer struct {
	cfg Config
	log zerolog.Logger
}

// New builds a Normalizer with the given config and logger.
func New(cfg Config, log zerolog.Logger) *Normalizer {
	return &Normalizer{cfg: cfg, log: log}
}

// NormalizeOne converts a single RawRecord into a Point. sourceOverride, if
// non-empty, bypasses source-label resolution (used when the caller already
// knows which provider produced the record).
func (n *Normalizer) NormalizeOne(rec RawRecord, forecastHour int, sourceOverride sources.ID) Point {
	src := sourceOverride
	if src == "" {
		label, _ := rec["__source_label"].(string)
		resolved, ok := sources.Resolve(label)
		if !ok {
			n.log.Warn().Str("label", label).Str("fallback", string(resolved)).Msg("unmapped provider source, using fallback")
		}
		src = resolved
	}

	p := Point{
		Source:       src,
		Timestamp:    rec.Timestamp().Unix(),
		ForecastHour: forecastHour,
	}

	if lat, ok := rec.first("lat", "latitude"); ok {
		if f, ok := toFloat(lat); ok {
			p.Lat = f
		}
	}
	if lon, ok := rec.first("lon", "longitude"); ok {
		if f, ok := toFloat(lon); ok {
			p.Lon = f
		}
	}

	if t, ok := rec.Temperature(); ok {
		p.TemperatureC = ptr(n.normalizeTemperature(t))
	}

	if u, v, ok := rec.WindComponents(); ok {
		speed := math.Sqrt(u*u + v*v)
		bearing := math.Mod(180+math.Atan2(u, v)*180/math.Pi, 360)
		if bearing < 0 {
			bearing += 360
		}
		p.WindSpeedMS = ptr(speed)
		p.WindDirDeg = ptr(bearing)
	} else {
		if ws, ok := rec.WindSpeed(); ok {
			p.WindSpeedMS = ptr(n.normalizeWindSpeed(ws))
		}
		if wd, ok := rec.WindDirection(); ok {
			p.WindDirDeg = ptr(normalizeDegrees(wd))
		}
	}

	if precip, ok := rec.Precipitation(); ok {
		if precip < 0 {
			precip = 0
		}
		p.PrecipMM = ptr(precip)
	}
	if cloud, ok := rec.CloudCover(); ok {
		p.CloudPct = ptr(cloud)
	}
	if hum, ok := rec.Humidity(); ok {
		p.HumidityPct = ptr(hum)
	}
	if pres, ok := rec.Pressure(); ok {
		p.PressureHPa = ptr(pres)
	}

	return p
}

// NormalizeBatch normalizes a list of RawRecords known to come from a single
// source, computing each record's forecast_hour relative to the first
// record's timestamp and injecting the batch lat/lon where a record omits it.
func (n *Normalizer) NormalizeBatch(records []RawRecord, src sources.ID, lat, lon float64) []Point {
	if len(records) == 0 {
		return nil
	}
	first := records[0].Timestamp()
	points := make([]Point, 0, len(records))
	for _, rec := range records {
		ts := rec.Timestamp()
		hours := int(ts.Sub(first).Hours())
		if hours < 0 {
			hours = 0
		}
		p := n.NormalizeOne(rec, hours, src)
		if p.Lat == 0 && p.Lon == 0 {
			p.Lat, p.Lon = lat, lon
		}
		points = append(points, p)
	}
	return points
}

func (n *Normalizer) normalizeTemperature(raw float64) float64 {
	v := raw
	if v > n.cfg.KelvinThreshold {
		v -= 273.15
	}
	if v < n.cfg.TemperatureMinC {
		n.log.Warn().Float64("raw", raw).Float64("clamped", n.cfg.TemperatureMinC).Msg("temperature below floor, clamping")
		return n.cfg.TemperatureMinC
	}
	if v > n.cfg.TemperatureMaxC {
		n.log.Warn().Float64("raw", raw).Float64("clamped", n.cfg.TemperatureMaxC).Msg("temperature above ceiling, clamping")
		return n.cfg.TemperatureMaxC
	}
	return v
}

func (n *Normalizer) normalizeWindSpeed(raw float64) float64 {
	v := raw
	if v > n.cfg.KmhThreshold {
		v /= 3.6
	}
	if v < 0 {
		return 0
	}
	return v
}

func normalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
