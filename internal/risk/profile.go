// Package risk computes a per-user-profile risk score (0-5) from fused
// forecasts, detected patterns, and operational alerts.
package risk

// Profile is a supported user profile, each with its own sensitivity to
// weather variables.
type Profile string

const (
	Pilot          Profile = "pilot"
	Trucker        Profile = "trucker"
	Farmer         Profile = "farmer"
	OutdoorSports  Profile = "outdoor_sports"
	OutdoorEvent   Profile = "outdoor_event"
	Construction   Profile = "construction"
	Tourism        Profile = "tourism"
	General        Profile = "general"
)

// AllProfiles lists every supported profile, in a stable order.
var AllProfiles = []Profile{
	Pilot, Trucker, Farmer, OutdoorSports, OutdoorEvent, Construction, Tourism, General,
}

var profileNames = map[Profile]string{
	Pilot:         "Pilot / Aviation",
	Trucker:       "Transport / Trucking",
	Farmer:        "Agriculture / Field",
	OutdoorSports: "Outdoor Sports",
	OutdoorEvent:  "Outdoor Event",
	Construction:  "Construction",
	Tourism:       "Tourism / Excursion",
	General:       "General",
}

// weights is the (temperature, wind, precipitation, patterns) contribution
// weights for a profile. Each set sums to 1.0.
type weights struct {
	temperature, wind, precipitation, patterns float64
}

var profileWeights = map[Profile]weights{
	Pilot:         {temperature: 0.10, wind: 0.40, precipitation: 0.25, patterns: 0.25},
	Trucker:       {temperature: 0.15, wind: 0.30, precipitation: 0.35, patterns: 0.20},
	Farmer:        {temperature: 0.30, wind: 0.15, precipitation: 0.30, patterns: 0.25},
	OutdoorSports: {temperature: 0.30, wind: 0.25, precipitation: 0.30, patterns: 0.15},
	OutdoorEvent:  {temperature: 0.20, wind: 0.25, precipitation: 0.35, patterns: 0.20},
	Construction:  {temperature: 0.20, wind: 0.35, precipitation: 0.25, patterns: 0.20},
	Tourism:       {temperature: 0.15, wind: 0.15, precipitation: 0.25, patterns: 0.45},
	General:       {temperature: 0.25, wind: 0.25, precipitation: 0.25, patterns: 0.25},
}

type tempThresholds struct{ cold, hot, optimalMin, optimalMax float64 }

var tempThresholdTable = map[Profile]tempThresholds{
	Pilot:         {cold: 0, hot: 40, optimalMin: 5, optimalMax: 35},
	Trucker:       {cold: -5, hot: 40, optimalMin: 0, optimalMax: 35},
	Farmer:        {cold: 0, hot: 35, optimalMin: 10, optimalMax: 30},
	OutdoorSports: {cold: 5, hot: 32, optimalMin: 10, optimalMax: 26},
	OutdoorEvent:  {cold: 10, hot: 32, optimalMin: 15, optimalMax: 28},
	Construction:  {cold: 0, hot: 35, optimalMin: 10, optimalMax: 30},
	Tourism:       {cold: 5, hot: 32, optimalMin: 15, optimalMax: 28},
	General:       {cold: 5, hot: 35, optimalMin: 15, optimalMax: 30},
}

type windThresholds struct{ moderate, strong, dangerous float64 }

var windThresholdTable = map[Profile]windThresholds{
	Pilot:         {moderate: 8, strong: 15, dangerous: 20},
	Trucker:       {moderate: 12, strong: 18, dangerous: 25},
	Farmer:        {moderate: 10, strong: 15, dangerous: 20},
	OutdoorSports: {moderate: 7, strong: 11, dangerous: 16},
	OutdoorEvent:  {moderate: 8, strong: 12, dangerous: 18},
	Construction:  {moderate: 10, strong: 15, dangerous: 20},
	Tourism:       {moderate: 10, strong: 15, dangerous: 20},
	General:       {moderate: 10, strong: 15, dangerous: 20},
}

type precipThresholds struct{ light, moderate, heavy float64 }

var precipThresholdTable = map[Profile]precipThresholds{
	Pilot:         {light: 2, moderate: 5, heavy: 15},
	Trucker:       {light: 5, moderate: 15, heavy: 30},
	Farmer:        {light: 10, moderate: 25, heavy: 50},
	OutdoorSports: {light: 1, moderate: 6, heavy: 18},
	OutdoorEvent:  {light: 1, moderate: 5, heavy: 15},
	Construction:  {light: 5, moderate: 15, heavy: 30},
	Tourism:       {light: 3, moderate: 10, heavy: 25},
	General:       {light: 5, moderate: 15, heavy: 30},
}
