// Package cli contains the cspace command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// CLI flags.
const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagLogFile = "log-file"

	flagSeed       = "seed"
	flagDelay      = "delay"
	flagStart      = "start"
	flagNearTarget = "near-target"
	flagColliding  = "allow-colliding"
	flagIterations = "iterations"
	flagMultiStart = "multi-start"
	flagSamples    = "samples"
	flagOutput     = "output"
	flagBins       = "bins"
	flagSnapshot   = "snapshot"
)

// Flags keep parse state, so every command gets its own.
func seedFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:  flagSeed,
		Usage: "seed for the random source, overriding the config",
	}
}

func delayFlag() cli.Flag {
	return &cli.DurationFlag{
		Name:  flagDelay,
		Usage: "pause after displaying each configuration, overriding the config",
	}
}

func snapshotFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagSnapshot,
		Usage: "draw the arm at the final configuration to `FILE` as PNG",
	}
}

func startFlag() cli.Flag {
	return &cli.Float64SliceFlag{
		Name:  flagStart,
		Usage: "reduced starting configuration `Q1,Q2` in radians; a random free sample is used when omitted",
	}
}

// NewApp returns the app for the CLI, writing results to out and diagnostics to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "cspace",
		Usage:           "explore the reduced configuration space of an arm among obstacles",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`; the built in environment is used when omitted",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging, which displays every emitted configuration",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write logs to `FILE`, rotating it as it grows",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "sample",
				Usage: "draw a random configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagNearTarget,
						Usage: "keep drawing until a collision free configuration is close to the target",
					},
					&cli.BoolFlag{
						Name:  flagColliding,
						Usage: "accept colliding configurations",
					},
					seedFlag(),
					delayFlag(),
				},
				Action: SampleAction,
			},
			{
				Name:  "descend",
				Usage: "walk toward the target with random descent",
				Flags: []cli.Flag{
					startFlag(),
					&cli.IntFlag{
						Name:  flagIterations,
						Usage: "number of proposals, overriding the config",
					},
					seedFlag(),
					delayFlag(),
					snapshotFlag(),
				},
				Action: DescendAction,
			},
			{
				Name:  "optimize",
				Usage: "minimize the distance to the target subject to clearance with SLSQP",
				Flags: []cli.Flag{
					startFlag(),
					&cli.IntFlag{
						Name:  flagMultiStart,
						Usage: "run `N` optimizations from random starts in parallel",
					},
					seedFlag(),
					delayFlag(),
					snapshotFlag(),
				},
				Action: OptimizeAction,
			},
			{
				Name:  "survey",
				Usage: "sample the configuration space and summarize cost and clearance",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagSamples,
						Usage: "number of samples, overriding the config",
					},
					&cli.StringFlag{
						Name:  flagOutput,
						Usage: "render the scatter plots to `FILE` as PNG",
					},
					&cli.IntFlag{
						Name:  flagBins,
						Value: 10,
						Usage: "clearance histogram bins",
					},
					seedFlag(),
				},
				Action: SurveyAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the config file",
				Action: SchemaAction,
			},
		},
	}
}
