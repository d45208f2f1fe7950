// Package logging builds the structured process logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects logger output.
type Config struct {
	Service string
	// Level is a zerolog level name; unknown or empty values mean "info".
	Level string
	// Console switches to the human-readable writer for local development.
	Console bool
	Output  io.Writer
}

// New returns a logger tagged with the service name.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(out).Level(level).With().Timestamp()
	if service := strings.TrimSpace(cfg.Service); service != "" {
		logger = logger.Str("service", service)
	}
	return logger.Logger()
}
