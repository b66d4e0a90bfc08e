package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skypulsear/meteofusion/internal/alert"
	"github.com/skypulsear/meteofusion/internal/config"
	"github.com/skypulsear/meteofusion/internal/engine"
	"github.com/skypulsear/meteofusion/internal/format"
	"github.com/skypulsear/meteofusion/internal/fuse"
	"github.com/skypulsear/meteofusion/internal/httpapi"
	"github.com/skypulsear/meteofusion/internal/inconsistency"
	"github.com/skypulsear/meteofusion/internal/ingest"
	"github.com/skypulsear/meteofusion/internal/metrics"
	"github.com/skypulsear/meteofusion/internal/normalize"
	"github.com/skypulsear/meteofusion/internal/pattern"
	"github.com/skypulsear/meteofusion/internal/risk"
	"github.com/skypulsear/meteofusion/internal/sources"
)

var (
	cfgFile    string
	latStr     string
	lonStr     string
	hours      int
	hoursAhead int
	profile    string
	jsonOutput bool
	listenAddr string
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "meteofusion",
		Short: "Weather fusion and risk scoring engine for Argentina",
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config YAML file")

	rootCmd.AddCommand(newFuseCmd(log), newRiskCmd(log), newServeCmd(log))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newFuseCmd(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuse",
		Short: "Fuse a unified forecast for a coordinate and print patterns/alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(log)
			if err != nil {
				return err
			}
			lat, lon, err := parseLatLon()
			if err != nil {
				return err
			}

			ctx := context.Background()
			forecasts, err := eng.GetUnifiedForecast(ctx, lat, lon, hours, nil)
			if err != nil {
				return fmt.Errorf("fusing forecast: %w", err)
			}
			patterns := eng.DetectPatterns(forecasts)
			alerts := eng.GetAlerts(patterns, forecasts)

			if jsonOutput {
				return format.FormatJSON(os.Stdout, map[string]any{
					"forecasts": forecasts,
					"patterns":  patterns,
					"alerts":    alerts,
				})
			}
			format.FormatForecastText(os.Stdout, lat, lon, forecasts)
			format.FormatPatternsText(os.Stdout, patterns)
			format.FormatAlertsText(os.Stdout, alerts)
			return nil
		},
	}
	addCoordFlags(cmd, 24)
	return cmd
}

func newRiskCmd(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Compute a risk score for a user profile at a coordinate",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(log)
			if err != nil {
				return err
			}
			lat, lon, err := parseLatLon()
			if err != nil {
				return err
			}
			p := risk.Profile(profile)
			if profile == "" {
				p = risk.General
			}

			score, err := eng.GetRiskScore(context.Background(), p, lat, lon, hoursAhead)
			if err != nil {
				return fmt.Errorf("computing risk score: %w", err)
			}

			if jsonOutput {
				return format.FormatJSON(os.Stdout, score)
			}
			format.FormatRiskText(os.Stdout, score)
			return nil
		},
	}
	addCoordFlags(cmd, 24)
	cmd.Flags().StringVar(&profile, "profile", string(risk.General), "User profile: "+profileChoices())
	cmd.Flags().IntVar(&hoursAhead, "hours-ahead", 6, "Hours ahead to consider (1-72)")
	return cmd
}

func newServeCmd(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP (GET /forecast, GET /risk, GET /health/breakers, GET /metrics)",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(log)
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			srv := httpapi.New(eng, m, reg, log)
			log.Info().Str("addr", listenAddr).Msg("starting meteofusion http server")
			return srv.Start(listenAddr)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", ":8080", "HTTP listen address")
	return cmd
}

func addCoordFlags(cmd *cobra.Command, defaultHours int) {
	cmd.Flags().StringVar(&latStr, "lat", "", "Latitude (-90 to 90)")
	cmd.Flags().StringVar(&lonStr, "lon", "", "Longitude (-180 to 180)")
	cmd.Flags().IntVar(&hours, "hours", defaultHours, "Forecast hours (1-336)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}

func parseLatLon() (lat, lon float64, err error) {
	if _, err = fmt.Sscanf(latStr, "%f", &lat); err != nil {
		return 0, 0, fmt.Errorf("invalid --lat %q: %w", latStr, err)
	}
	if _, err = fmt.Sscanf(lonStr, "%f", &lon); err != nil {
		return 0, 0, fmt.Errorf("invalid --lon %q: %w", lonStr, err)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("lat %v out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("lon %v out of range [-180, 180]", lon)
	}
	return lat, lon, nil
}

func profileChoices() string {
	s := ""
	for i, p := range risk.AllProfiles {
		if i > 0 {
			s += "|"
		}
		s += string(p)
	}
	return s
}

// buildEngine wires every pipeline stage from EngineConfig, the way
// loadTuningConfig feeds GenerateForecast in the teacher's CLI. Only
// wrf_smn has a real client (Open-Meteo); the Windy providers require an
// API key (spec: WINDY_POINT_FORECAST_API_KEY) this deployment does not
// hold, so they are left unwired rather than faked.
func buildEngine(log zerolog.Logger) (*engine.Engine, error) {
	cfg, err := config.LoadEngineConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	norm := normalize.New(cfg.Normalize, log)
	clients := map[sources.ID]ingest.ProviderClient{
		sources.WRFSMN: ingest.NewOpenMeteoClient(log),
	}
	ingestor := ingest.New(cfg.Ingest, clients, norm, ingest.NewRegistry(), log)
	fuser := fuse.New(cfg.Fuse, inconsistency.New(cfg.Inconsistency))
	patterns := pattern.New(cfg.Pattern, nil)
	alerts := alert.NewWithConfig(cfg.Alert, nil)
	scorer := risk.New(nil)

	return engine.New(ingestor, fuser, patterns, alerts, scorer, []sources.ID{sources.WRFSMN}, log), nil
}
