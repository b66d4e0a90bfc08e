package fuse

import "github.com/skypulsear/meteofusion/internal/sources"

// WeightTable maps a source to its base fusion weight for one variable and
// horizon class. The entries need not sum to 1: the Fuser renormalizes the
// weights of the sources present before averaging.
type WeightTable map[sources.ID]float64

// Config holds the weighted-fusion tables the spec illustrates for
// temperature, wind, and precipitation across the short/long horizon split.
type Config struct {
	TemperatureShort WeightTable
	TemperatureLong  WeightTable
	WindShort        WeightTable
	WindLong         WeightTable
	PrecipShort      WeightTable
	PrecipLong       WeightTable

	// HorizonCutoffHours splits "short" (<=) from "long" (>) horizon weight
	// tables.
	HorizonCutoffHours int
	// FallbackWeight is assigned to a contributing source absent from the
	// relevant weight table.
	FallbackWeight float64
}

// DefaultConfig mirrors the illustrative weight tables from the fusion spec.
func DefaultConfig() Config {
	return Config{
		TemperatureShort: WeightTable{sources.WRFSMN: 0.35, sources.WindyECMWF: 0.30, sources.WindyGFS: 0.20},
		TemperatureLong:  WeightTable{sources.WindyECMWF: 0.40, sources.WindyGFS: 0.30},
		WindShort:        WeightTable{sources.WRFSMN: 0.40, sources.WindyECMWF: 0.30, sources.WindyGFS: 0.15},
		WindLong:         WeightTable{sources.WindyECMWF: 0.45, sources.WindyGFS: 0.30},
		PrecipShort:      WeightTable{sources.WRFSMN: 0.45, sources.WindyECMWF: 0.30, sources.WindyGFS: 0.15},
		PrecipLong:       WeightTable{sources.WindyECMWF: 0.45, sources.WindyGFS: 0.35},

		HorizonCutoffHours: 72,
		FallbackWeight:     0.1,
	}
}

func (c Config) weightsFor(variable string, forecastHour int) WeightTable {
	short := forecastHour <= c.HorizonCutoffHours
	switch variable {
	case "temperature":
		if short {
			return c.TemperatureShort
		}
		return c.TemperatureLong
	case "wind_speed":
		if short {
			return c.WindShort
		}
		return c.WindLong
	case "precipitation":
		if short {
			return c.PrecipShort
		}
		return c.PrecipLong
	default:
		return nil
	}
}
