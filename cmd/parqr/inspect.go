package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/pdcrl/parqr/internal/dense"
	"github.com/pdcrl/parqr/internal/sched"
)

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print matrix dimensions and the task grid for the configured tiling",
		ArgsUsage: "<matrix-file>",
		Flags:     tilingFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				_ = cli.ShowSubcommandHelp(cmd)
				return cli.Exit("error: missing required <matrix-file> argument", 1)
			}

			cfg, err := loadConfig()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read config: %v", err), 1)
			}
			applyTilingConfig(cmd, cfg)

			m, err := dense.Load(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			a, b := int(alpha), int(beta)
			if a == 0 {
				a = sched.DefaultAlpha
			}
			if b == 0 {
				b = sched.DefaultBeta
			}
			grid, err := sched.BuildGrid(m.Rows, m.Cols, a, b)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			panels, updates := grid.Counts()

			fmt.Printf("matrix:  %d×%d (%s)\n", m.Rows, m.Cols, path)
			fmt.Printf("tiling:  alpha=%d beta=%d\n", a, b)
			fmt.Printf("grid:    %d×%d cells\n", grid.Rows, grid.Cols)
			fmt.Printf("tasks:   %d (%d panels, %d updates)\n", grid.Total(), panels, updates)
			return nil
		},
	}
}
