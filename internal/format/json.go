package format

import (
	"encoding/json"
	"io"
)

// FormatJSON writes any result value (forecasts, a risk score, alerts,
// patterns) as indented JSON.
func FormatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
