// Package config aggregates every pipeline stage's tunable parameters into
// one EngineConfig, loaded from struct defaults, an optional YAML file, and
// environment variables, in that ascending priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/skypulsear/meteofusion/internal/alert"
	"github.com/skypulsear/meteofusion/internal/fuse"
	"github.com/skypulsear/meteofusion/internal/inconsistency"
	"github.com/skypulsear/meteofusion/internal/ingest"
	"github.com/skypulsear/meteofusion/internal/normalize"
	"github.com/skypulsear/meteofusion/internal/pattern"
)

// EngineConfig bundles every subsystem's configuration into the one object
// cmd/meteofusion wires into an Engine.
type EngineConfig struct {
	Ingest        ingest.Config        `mapstructure:"ingest" yaml:"ingest" json:"ingest"`
	Normalize     normalize.Config     `mapstructure:"normalize" yaml:"normalize" json:"normalize"`
	Inconsistency inconsistency.Config `mapstructure:"inconsistency" yaml:"inconsistency" json:"inconsistency"`
	Fuse          fuse.Config          `mapstructure:"fuse" yaml:"fuse" json:"fuse"`
	Pattern       pattern.Thresholds   `mapstructure:"pattern" yaml:"pattern" json:"pattern"`
	Alert         alert.Config         `mapstructure:"alert" yaml:"alert" json:"alert"`
}

// DefaultEngineConfig returns every subsystem's own defaults, unmodified.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Ingest:        ingest.DefaultConfig(),
		Normalize:     normalize.DefaultConfig(),
		Inconsistency: inconsistency.DefaultConfig(),
		Fuse:          fuse.DefaultConfig(),
		Pattern:       pattern.DefaultThresholds(),
		Alert:         alert.DefaultConfig(),
	}
}

// LoadEngineConfig reads configPath (if non-empty) or the conventional
// meteofusion.yaml search path, overlays SKYPULSE_-prefixed environment
// variables, and falls back to DefaultEngineConfig for anything unset.
func LoadEngineConfig(configPath string) (EngineConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("SKYPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultEngineConfig()
	setIngestDefaults(v, def.Ingest)
	setNormalizeDefaults(v, def.Normalize)
	setInconsistencyDefaults(v, def.Inconsistency)
	setPatternDefaults(v, def.Pattern)
	setAlertDefaults(v, def.Alert)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("meteofusion")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "meteofusion"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return EngineConfig{}, fmt.Errorf("reading meteofusion config: %w", err)
		}
	}

	cfg := def
	// Fuse's weight tables are keyed by sources.ID and are not expressed as
	// env/file-overridable leaves; they always come from fuse.DefaultConfig.
	if err := v.Unmarshal(&cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("unmarshalling meteofusion config: %w", err)
	}
	cfg.Fuse = def.Fuse
	return cfg, nil
}

func setIngestDefaults(v *viper.Viper, d ingest.Config) {
	v.SetDefault("ingest.max_parallelism", d.MaxParallelism)
	v.SetDefault("ingest.rate_per_second", d.RatePerSecond)
	v.SetDefault("ingest.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("ingest.retry.initial_delay", d.Retry.InitialDelay)
	v.SetDefault("ingest.retry.max_delay", d.Retry.MaxDelay)
	v.SetDefault("ingest.retry.multiplier", d.Retry.Multiplier)
	v.SetDefault("ingest.retry.jitter", d.Retry.Jitter)
	v.SetDefault("ingest.breaker.failure_threshold", d.Breaker.FailureThreshold)
	v.SetDefault("ingest.breaker.recovery_timeout", d.Breaker.RecoveryTimeout)
	v.SetDefault("ingest.breaker.expected_class", string(d.Breaker.ExpectedClass))
}

func setNormalizeDefaults(v *viper.Viper, d normalize.Config) {
	v.SetDefault("normalize.kelvin_threshold", d.KelvinThreshold)
	v.SetDefault("normalize.kmh_threshold", d.KmhThreshold)
	v.SetDefault("normalize.temperature_min_c", d.TemperatureMinC)
	v.SetDefault("normalize.temperature_max_c", d.TemperatureMaxC)
	v.SetDefault("normalize.default_source_tag", d.DefaultSourceTag)
}

func setInconsistencyDefaults(v *viper.Viper, d inconsistency.Config) {
	setVariableThresholds(v, "inconsistency.temperature", d.Temperature)
	setVariableThresholds(v, "inconsistency.wind_speed", d.WindSpeed)
	setVariableThresholds(v, "inconsistency.precipitation", d.Precip)
	setVariableThresholds(v, "inconsistency.cloud_cover", d.CloudCover)
	v.SetDefault("inconsistency.significant_threshold", d.SignificantThreshold)
	v.SetDefault("inconsistency.min_report_severity", d.MinReportSeverity)
}

func setVariableThresholds(v *viper.Viper, prefix string, t inconsistency.VariableThresholds) {
	v.SetDefault(prefix+".max_std", t.MaxStd)
	v.SetDefault(prefix+".max_range", t.MaxRange)
	v.SetDefault(prefix+".outlier_factor", t.OutlierFactor)
}

func setPatternDefaults(v *viper.Viper, d pattern.Thresholds) {
	v.SetDefault("pattern.cape_moderate", d.CAPEModerate)
	v.SetDefault("pattern.cape_strong", d.CAPEStrong)
	v.SetDefault("pattern.cape_extreme", d.CAPEExtreme)
	v.SetDefault("pattern.wind_gust_severe", d.WindGustSevere)
	v.SetDefault("pattern.precip_intense", d.PrecipIntense)
	v.SetDefault("pattern.heat_wave_day", d.HeatWaveDay)
	v.SetDefault("pattern.heat_wave_night", d.HeatWaveNight)
	v.SetDefault("pattern.extreme_heat", d.ExtremeHeat)
	v.SetDefault("pattern.cold_wave", d.ColdWave)
	v.SetDefault("pattern.frost", d.Frost)
	v.SetDefault("pattern.severe_frost", d.SevereFrost)
	v.SetDefault("pattern.wave_min_days", d.WaveMinDays)
}

func setAlertDefaults(v *viper.Viper, d alert.Config) {
	v.SetDefault("alert.precip_heavy_mm", d.PrecipHeavyMM)
	v.SetDefault("alert.wind_strong_ms", d.WindStrongMS)
	v.SetDefault("alert.temp_hot_c", d.TempHotC)
	v.SetDefault("alert.temp_freezing_c", d.TempFreezingC)
}
