// Package logging builds the process-wide structured logger and a no-op
// logger for tests.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a zerolog.Logger writing to w (os.Stderr in production), with
// the level and timestamp conventions the rest of the module expects.
func New(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything, for tests and library
// callers that have not wired a logger in.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
