package main

import "github.com/urfave/cli/v3"

var (
	alpha    int64
	beta     int64
	workers  int64
	logLevel string
	logFmt   string
)

// tilingFlags are shared by every command that builds a task grid.
func tilingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "alpha",
			Aliases:     []string{"a"},
			Usage:       "pivot block size (pivots per panel task)",
			Value:       0,
			Destination: &alpha,
		},
		&cli.Int64Flag{
			Name:        "beta",
			Aliases:     []string{"b"},
			Usage:       "column block size (columns per update task); must be a multiple of alpha",
			Value:       0,
			Destination: &beta,
		},
		&cli.Int64Flag{
			Name:        "workers",
			Aliases:     []string{"w"},
			Usage:       "worker pool size (default: GOMAXPROCS)",
			Value:       0,
			Destination: &workers,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (auto, pretty, json, text)",
			Value:       "auto",
			Destination: &logFmt,
		},
	}
}
