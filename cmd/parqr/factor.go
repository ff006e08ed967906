package main

import (
	"context"
	"fmt"
	"math"

	"github.com/urfave/cli/v3"

	"github.com/pdcrl/parqr/internal/dense"
	"github.com/pdcrl/parqr/internal/logger"
	"github.com/pdcrl/parqr/internal/qr"
	"github.com/pdcrl/parqr/internal/sched"
)

func factorCmd() *cli.Command {
	var (
		check   bool
		verify  bool
		output  string
		tolExp  int64
		quietMs bool
	)

	return &cli.Command{
		Name:      "factor",
		Usage:     "Factorize a matrix file in place and report elapsed time",
		ArgsUsage: "<matrix-file>",
		Flags: append(tilingFlags(),
			&cli.BoolFlag{
				Name:        "check",
				Usage:       "run the scheduler's invariant checker (slower)",
				Destination: &check,
			},
			&cli.BoolFlag{
				Name:        "verify",
				Usage:       "compare the result against a sequential reference factorization",
				Destination: &verify,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write the factored matrix to this path",
				Destination: &output,
			},
			&cli.Int64Flag{
				Name:        "tolerance-exp",
				Usage:       "verification tolerance as a power of ten",
				Value:       -9,
				Destination: &tolExp,
			},
			&cli.BoolFlag{
				Name:        "no-time",
				Usage:       "suppress the elapsed-time line",
				Destination: &quietMs,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				_ = cli.ShowSubcommandHelp(cmd)
				return cli.Exit("error: missing required <matrix-file> argument", 1)
			}
			log := logger.FromContext(ctx)

			cfg, err := loadConfig()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read config: %v", err), 1)
			}
			applyTilingConfig(cmd, cfg)

			m, err := dense.Load(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			var ref *dense.Matrix
			if verify {
				ref = m.Clone()
			}

			scheduler, err := sched.New(m, sched.Options{
				Alpha:   int(alpha),
				Beta:    int(beta),
				Workers: int(workers),
				Check:   check,
				Log:     log,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			res, err := scheduler.Run(ctx)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: factorization: %v", err), 1)
			}
			if !quietMs {
				fmt.Printf("Time taken: %d ms\n", res.Elapsed.Milliseconds())
			}
			if len(res.Degenerate) > 0 {
				fmt.Printf("warning: %d degenerate pivot(s), factorization truncated\n", len(res.Degenerate))
			}

			if verify {
				if err := verifyFactorization(m, ref, scheduler.Scratch(), tolExp); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				fmt.Println("verification passed")
			}
			if output != "" {
				if err := m.Save(output); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				log.Info("factored matrix written", "path", output)
			}
			return nil
		},
	}
}

// verifyFactorization checks max |QᵀA - R| against the reference copy of the
// input, where Q is reconstructed from the reflectors left in the factored
// matrix.
func verifyFactorization(factored, original *dense.Matrix, s *qr.Scratch, tolExp int64) error {
	n := qr.Pivots(factored)
	qta := original.Clone()
	qr.ApplyQT(factored, s, n, qta)
	r := qr.UpperTriangle(factored, n)

	diff := dense.MaxAbsDiff(qta, r)
	tol := math.Pow10(int(tolExp)) * float64(factored.Rows)
	if diff > tol {
		return fmt.Errorf("verification failed: max |QᵀA - R| = %g exceeds %g", diff, tol)
	}
	return nil
}
