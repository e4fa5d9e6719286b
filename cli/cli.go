package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "splatsweep"

type App struct {
	logger  zerolog.Logger
	cli     *cli.App
	confirm Confirmer
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger:  logger,
		confirm: &TerminalConfirmer{In: os.Stdin, Out: os.Stderr},
		cli: &cli.App{
			Name:  AppName,
			Usage: "Run reconstruction parameter sweeps across a pool of GPUs",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "sweep",
		Usage:  "Run the parameter sweep against the reconstruction binary",
		Action: app.sweep,
		Flags: append(catalogFlags(),
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Usage:   "Number of concurrent test runs (size to GPU count and memory)",
				Value:   1,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory for artifacts and the report",
				Value:   "./output",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Per-run timeout in seconds (0 = unbounded)",
				Value: 3600,
			},
			&cli.StringFlag{
				Name:  "binary",
				Usage: "Path to the reconstruction binary",
				Value: "./opensplat",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Input dataset directory",
				Value: "./banana",
			},
			&cli.IntFlag{
				Name:  "devices",
				Usage: "Device count override (-1 = auto-detect, 0 = no device pinning)",
				Value: -1,
			},
		),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "plan",
		Usage:  "Print the selected catalog without running anything",
		Action: app.plan,
		Flags:  catalogFlags(),
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "compare",
		Usage:     "Compare the artifacts in an existing output directory",
		ArgsUsage: "[DIR]",
		Action:    app.compare,
		Description: `Compare the artifacts in an existing output directory.

Artifacts are correlated back to test cases by filename stem and grouped
by the parameter axis the catalog naming convention encodes. The report
is deterministic: rerunning over an unchanged directory yields identical
output.`,
	})
	return app
}

// catalogFlags are shared between sweep and plan so both select the
// same test cases.
func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "quick",
			Usage: "Use the reduced quick catalog",
		},
		&cli.StringFlag{
			Name:  "catalog",
			Usage: "Load test cases from a YAML catalog file instead of the built-ins",
		},
		&cli.StringFlag{
			Name:  "only",
			Usage: "Run only the named test cases (comma separated)",
		},
		&cli.IntFlag{
			Name:  "iters",
			Usage: "Override num-iters uniformly on every test case",
		},
	}
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
