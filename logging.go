package canvasform

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig holds logging configuration for hosts that want a real logger
// instead of the silent default.
type LogConfig struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Output     io.Writer
}

// DefaultLogConfig returns console logging at info level on stderr.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     os.Stderr,
	}
}

// NewLogger creates a zerolog logger from cfg.
func NewLogger(cfg LogConfig) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
			NoColor:    true,
		}
	}

	return zerolog.New(out).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// ParseLogLevel parses a level name with zerolog.ParseLevel. An empty
// string means info and "off" is an alias for disabled.
func ParseLogLevel(s string) (zerolog.Level, error) {
	switch name := strings.ToLower(strings.TrimSpace(s)); name {
	case "":
		return zerolog.InfoLevel, nil
	case "off":
		return zerolog.Disabled, nil
	default:
		level, err := zerolog.ParseLevel(name)
		if err != nil {
			return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
		}
		return level, nil
	}
}
