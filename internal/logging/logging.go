// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing human-readable console output to stderr at
// the given level. Unknown levels fall back to info; verbose forces debug.
func New(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, lvl)
}

// NewWithWriter builds a logger on an explicit writer. Tests use this with
// a buffer or io.Discard.
func NewWithWriter(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// Component derives a child logger tagged with a component identifier.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
