// Package logger builds the application's structured slog logger.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

const logFile = "review-bot.log"

// Config holds the logger configuration.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Writer resolves the configured output destination. Unknown values and a
// log file that cannot be opened fall back to stdout.
func Writer(cfg Config) io.Writer {
	switch cfg.Output {
	case "stderr":
		return os.Stderr
	case "file":
		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logFile, err)
			return os.Stdout
		}
		return file
	default:
		return os.Stdout
	}
}

// ParseLevel converts a level name to a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger initializes a new slog logger based on the provided configuration.
// A nil output is resolved with Writer.
func NewLogger(cfg Config, output io.Writer) *slog.Logger {
	if output == nil {
		output = Writer(cfg)
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
