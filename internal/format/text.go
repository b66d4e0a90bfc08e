package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/skypulsear/meteofusion/internal/alert"
	"github.com/skypulsear/meteofusion/internal/fuse"
	"github.com/skypulsear/meteofusion/internal/pattern"
	"github.com/skypulsear/meteofusion/internal/risk"
)

// FormatForecastText writes a pretty text rendering of a fused forecast
// series to w.
func FormatForecastText(w io.Writer, lat, lon float64, forecasts []fuse.Forecast) {
	fmt.Fprintf(w, "\n"+ForecastTitle+"\n", lat, lon)
	if len(forecasts) == 0 {
		fmt.Fprintln(w, "No forecast data available.")
		return
	}
	fmt.Fprintf(w, "   %-6s %-7s %-6s %-6s %-8s %-6s %s\n",
		"Hour", "Temp", "Wind", "Dir", "Precip", "Cloud", "Confidence")
	for _, f := range forecasts {
		fmt.Fprintf(w, "   %-6d %-7s %-6s %-6s %-8s %-6s %.0f%%\n",
			f.ForecastHour,
			valueOrDash(f.TemperatureC, "%.1f°C"),
			valueOrDash(f.WindSpeedMS, "%.1fm/s"),
			valueOrDash(f.WindDirDeg, "%.0f°"),
			valueOrDash(f.PrecipMM, "%.1fmm"),
			valueOrDash(f.CloudPct, "%.0f%%"),
			f.OverallConfidence*100,
		)
	}
	fmt.Fprintln(w)
}

// FormatRiskText writes a pretty text rendering of a risk score to w.
func FormatRiskText(w io.Writer, s risk.Score) {
	fmt.Fprintf(w, "\n"+RiskTitle+"\n", s.ProfileName)
	fmt.Fprintf(w, "   %s %.1f/5.0 (%s)\n", categoryIcon(string(s.Category)), s.Value, s.Category)
	if len(s.MainRiskFactors) > 0 {
		fmt.Fprintf(w, "   Main factors: %s\n", strings.Join(s.MainRiskFactors, ", "))
	}
	fmt.Fprintf(w, "   %s\n", s.Recommendation)
	if s.ActionRequired {
		fmt.Fprintln(w, "   ⚠️  Action required.")
	}
	fmt.Fprintln(w)
}

// FormatAlertsText writes a pretty text rendering of operational alerts to
// w.
func FormatAlertsText(w io.Writer, alerts []alert.Operational) {
	fmt.Fprintf(w, "\n%s\n", AlertsTitle)
	if len(alerts) == 0 {
		fmt.Fprintln(w, NoAlertsLine)
		return
	}
	for _, a := range alerts {
		fmt.Fprintf(w, "   %s [%s] %s — %s (%s)\n", levelIcon(a.LevelName), a.LevelName, a.Phenomenon, a.Description, a.TimeWindow)
		fmt.Fprintf(w, "      → %s\n", a.Recommendation)
	}
	fmt.Fprintln(w)
}

// FormatPatternsText writes a pretty text rendering of detected patterns to
// w.
func FormatPatternsText(w io.Writer, patterns []pattern.Detected) {
	fmt.Fprintf(w, "\n%s\n", PatternsTitle)
	if len(patterns) == 0 {
		fmt.Fprintln(w, NoPatternsLine)
		return
	}
	for _, p := range patterns {
		fmt.Fprintf(w, "   [%s] %s (confidence %.0f%%)\n", p.RiskLevel, p.Title, p.Confidence*100)
		fmt.Fprintf(w, "      %s\n", p.Description)
	}
	fmt.Fprintln(w)
}

func valueOrDash(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
