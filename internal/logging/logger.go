package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger. format is "json" or "console".
func Setup(level, format string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	}

	log.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return nil
}

// New returns a child of the global logger tagged with component to simplify traceability.
func New(component string) zerolog.Logger {
	if component == "" {
		return log.Logger
	}
	return log.Logger.With().Str("component", component).Logger()
}
