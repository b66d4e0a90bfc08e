// Package sources defines the closed set of provider identifiers the fusion
// pipeline understands, and the best-effort mapping from whatever label a
// provider or operator supplies to that closed set.
package sources

import "strings"

// ID identifies a weather data provider. It is a closed enumeration: any
// value outside the constants below is not a valid ID.
type ID string

const (
	WindyECMWF ID = "windy_ecmwf"
	WindyGFS   ID = "windy_gfs"
	WindyICON  ID = "windy_icon"
	WRFSMN     ID = "wrf_smn"
	// Fused marks a point that is itself the output of fusion, not a raw provider.
	Fused ID = "fused"

	// DefaultFallback is the ID assigned to a label that cannot be mapped,
	// mirroring the original normalizer's default-to-WRF-SMN behaviour.
	DefaultFallback = WRFSMN
)

// Active is the default set of providers considered in scope for a fan-out
// when the caller does not request a subset.
var Active = []ID{WindyECMWF, WindyGFS, WRFSMN}

// aliases holds exact lowercase labels the pack's real providers are known to
// emit, before falling back to substring matching.
var aliases = map[string]ID{
	"windy_ecmwf": WindyECMWF,
	"windy_gfs":   WindyGFS,
	"windy_icon":  WindyICON,
	"wrf-smn":     WRFSMN,
	"wrf_smn":     WRFSMN,
}

// Resolve maps an arbitrary provider label to a known ID. It tries an exact
// case-insensitive match first, then a substring match in either direction,
// and otherwise returns DefaultFallback with ok=false so the caller can log
// the fallback.
func Resolve(label string) (id ID, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return DefaultFallback, false
	}
	if mapped, found := aliases[lower]; found {
		return mapped, true
	}
	for alias, mapped := range aliases {
		if strings.Contains(lower, alias) || strings.Contains(alias, lower) {
			return mapped, true
		}
	}
	return DefaultFallback, false
}

// WeightKey maps a SourceID to the key used to look up base fusion weights.
// Windy's ICON model is deliberately folded into the GFS weight bucket, a
// quirk preserved from the original weight tables rather than corrected here.
func WeightKey(id ID) string {
	if id == WindyICON {
		return string(WindyGFS)
	}
	return string(id)
}
