package inconsistency

// VariableThresholds controls when a variable's cross-source dispersion is
// considered severe enough to report, grounded on the original detector's
// per-variable THRESHOLDS table.
type VariableThresholds struct {
	MaxStd        float64 `mapstructure:"max_std" yaml:"max_std" json:"max_std"`
	MaxRange      float64 `mapstructure:"max_range" yaml:"max_range" json:"max_range"`
	OutlierFactor float64 `mapstructure:"outlier_factor" yaml:"outlier_factor" json:"outlier_factor"`
}

// Config holds the per-variable thresholds the detector analyzes.
type Config struct {
	Temperature VariableThresholds `mapstructure:"temperature" yaml:"temperature" json:"temperature"`
	WindSpeed   VariableThresholds `mapstructure:"wind_speed" yaml:"wind_speed" json:"wind_speed"`
	Precip      VariableThresholds `mapstructure:"precipitation" yaml:"precipitation" json:"precipitation"`
	CloudCover  VariableThresholds `mapstructure:"cloud_cover" yaml:"cloud_cover" json:"cloud_cover"`
	// SignificantThreshold is the severity above which a report counts as
	// significant (spec: severity > 0.3).
	SignificantThreshold float64 `mapstructure:"significant_threshold" yaml:"significant_threshold" json:"significant_threshold"`
	// MinReportSeverity filters out near-zero reports entirely.
	MinReportSeverity float64 `mapstructure:"min_report_severity" yaml:"min_report_severity" json:"min_report_severity"`
}

// DefaultConfig mirrors the original InconsistencyDetector.THRESHOLDS table.
func DefaultConfig() Config {
	return Config{
		Temperature:           VariableThresholds{MaxStd: 3.0, MaxRange: 8.0, OutlierFactor: 2.0},
		WindSpeed:             VariableThresholds{MaxStd: 4.0, MaxRange: 10.0, OutlierFactor: 2.0},
		Precip:                VariableThresholds{MaxStd: 5.0, MaxRange: 15.0, OutlierFactor: 2.5},
		CloudCover:            VariableThresholds{MaxStd: 20.0, MaxRange: 50.0, OutlierFactor: 2.0},
		SignificantThreshold:  0.3,
		MinReportSeverity:     0.1,
	}
}
