package normalize

// Config holds the tunable thresholds the Normalizer uses for unit
// detection and clamping, grounded on the original normalizer's inline
// heuristics (temperature > 100 => Kelvin, wind > 50 => km/h).
type Config struct {
	KelvinThreshold  float64 `mapstructure:"kelvin_threshold" yaml:"kelvin_threshold" json:"kelvin_threshold"`
	KmhThreshold     float64 `mapstructure:"kmh_threshold" yaml:"kmh_threshold" json:"kmh_threshold"`
	TemperatureMinC  float64 `mapstructure:"temperature_min_c" yaml:"temperature_min_c" json:"temperature_min_c"`
	TemperatureMaxC  float64 `mapstructure:"temperature_max_c" yaml:"temperature_max_c" json:"temperature_max_c"`
	DefaultSourceTag string  `mapstructure:"default_source_tag" yaml:"default_source_tag" json:"default_source_tag"`
}

// DefaultConfig returns the normalizer thresholds used by the original
// implementation.
func DefaultConfig() Config {
	return Config{
		KelvinThreshold:  100,
		KmhThreshold:     50,
		TemperatureMinC:  -100,
		TemperatureMaxC:  60,
		DefaultSourceTag: "wrf_smn",
	}
}
