package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v2"

	"github.com/splatsweep/splatsweep/report"
)

// compare scans an output directory for artifacts and prints the
// size and vertex comparison to stdout.
func (a *App) compare(ctx *cli.Context) error {
	dir := ctx.Args().First()
	if dir == "" {
		dir = "./output"
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory not found at %s", dir)
	}

	s := spinner.New(spinner.CharSets[14], 120*time.Millisecond,
		spinner.WithWriter(os.Stderr))
	s.Suffix = " Scanning artifacts..."
	s.Start()
	models, err := report.Scan(dir)
	s.Stop()
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(models) == 0 {
		return fmt.Errorf("no %s artifacts found in %s", report.ArtifactGlobExt, dir)
	}

	a.logger.Debug().Int("artifacts", len(models)).Str("dir", dir).Msg("Scanned output directory")

	fmt.Fprint(os.Stdout, report.Comparison(models))
	return nil
}
