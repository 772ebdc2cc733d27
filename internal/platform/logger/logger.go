// Package logger builds the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger for production and a human readable console
// logger everywhere else. Unknown levels fall back to info.
func New(environment, level string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if environment != "production" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out, environment, level)
}

func NewWithWriter(out io.Writer, environment, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "employee-api").
		Str("env", environment).
		Logger()
}
