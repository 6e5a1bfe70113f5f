// Package logging builds the structured loggers used by the command line
// and the headless simulator.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the named level ("debug", "info",
// "warn", "error"). An empty level means info.
func New(level string, w io.Writer) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		var err error
		lvl, err = log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "celestial",
	}), nil
}

// Stderr is New writing to standard error, falling back to info on a bad
// level.
func Stderr(level string) *log.Logger {
	l, err := New(level, os.Stderr)
	if err != nil {
		l, _ = New("", os.Stderr)
		l.Warn("ignoring log level", "err", err)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
