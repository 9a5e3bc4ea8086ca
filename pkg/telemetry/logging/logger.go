// Package logging configures the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Setup builds a slog logger from the configured level and format and
// installs it as the process default. Writer defaults to os.Stdout.
func Setup(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "json", "":
		handler = newContextHandler(slog.NewJSONHandler(w, opts))
	case "text":
		handler = newContextHandler(slog.NewTextHandler(w, opts))
	default:
		return nil, fmt.Errorf("unknown log format: %s", format)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
