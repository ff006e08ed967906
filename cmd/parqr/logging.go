package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pdcrl/parqr/internal/logger"
)

// buildLogger turns the logging flags into a Logger. The "auto" format uses
// the colored handler only when stderr is a terminal.
func buildLogger() (logger.Logger, error) {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", logLevel)
	}

	format := logFmt
	if format == "auto" || format == "" {
		if isTerminal(os.Stderr.Fd()) {
			format = "pretty"
		} else {
			format = "text"
		}
	}
	switch format {
	case "pretty":
		return logger.Pretty(os.Stderr, level), nil
	case "json":
		return logger.JSON(os.Stderr, level), nil
	case "text":
		return logger.Text(os.Stderr, level), nil
	}
	return nil, fmt.Errorf("unknown log format %q", logFmt)
}
