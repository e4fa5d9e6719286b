package cli

// This file contains the sweep command: catalog selection, pre-flight
// checks, the confirmation gate, scheduler invocation, and report
// persistence.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/splatsweep/splatsweep/catalog"
	"github.com/splatsweep/splatsweep/model"
	"github.com/splatsweep/splatsweep/report"
	"github.com/splatsweep/splatsweep/sweep"
)

func (a *App) sweep(ctx *cli.Context) error {
	startTime := time.Now()

	parallelism := ctx.Int("parallel")
	if parallelism < 1 {
		parallelism = 1
	}
	outputDir := ctx.String("output")
	binary := ctx.String("binary")
	dataDir := ctx.String("data")
	timeout := time.Duration(ctx.Int("timeout")) * time.Second

	cases, err := a.selectCases(ctx)
	if err != nil {
		return err
	}

	if err := a.preflight(binary, dataDir, outputDir); err != nil {
		return err
	}

	deviceCount := ctx.Int("devices")
	if deviceCount < 0 {
		deviceCount = sweep.DetectDevices(a.logger)
	}

	a.printPlan(cases, parallelism, deviceCount, outputDir)

	confirm := a.confirm
	if ctx.Bool("yes") {
		confirm = AutoConfirmer{}
	}
	prompt := fmt.Sprintf("Run %d test case(s) with parallelism %d?", len(cases), parallelism)
	if ok, err := confirm.Confirm(prompt); err != nil {
		return err
	} else if !ok {
		a.logger.Info().Msg("Sweep cancelled")
		return nil
	}

	invoker := &sweep.BinaryInvoker{
		Logger:    a.logger,
		Binary:    binary,
		DataDir:   dataDir,
		OutputDir: outputDir,
		Timeout:   timeout,
	}

	bar := progressbar.NewOptions(len(cases),
		progressbar.OptionSetDescription("Running sweep"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(18),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	scheduler := &sweep.Scheduler{
		Logger:      a.logger,
		Invoker:     invoker,
		Parallelism: parallelism,
		DeviceCount: deviceCount,
		OnComplete: func(rec model.RunRecord, completed, total int) {
			_ = bar.Add(1)
			a.logger.Info().
				Str("test", rec.TestCase.Name).
				Str("status", string(rec.Status)).
				Int("completed", completed).
				Int("total", total).
				Msg("Run collected")
		},
	}

	// SIGINT stops dispatch; in-flight runs finish and the partial
	// report is still written.
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := scheduler.Run(sigCtx, cases)
	_ = bar.Finish()

	sw := model.Sweep{
		ID:          uuid.NewString(),
		Timestamp:   startTime,
		Args:        os.Args,
		Parallelism: parallelism,
		DeviceCount: deviceCount,
		Binary:      binary,
		DataDir:     dataDir,
		OutputDir:   outputDir,
		Duration:    time.Since(startTime),
		Partial:     result.Partial,
		Records:     result.Records,
	}

	reportPath := filepath.Join(outputDir, "report.md")
	if err := os.WriteFile(reportPath, []byte(report.Markdown(sw)), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	a.logger.Info().Str("path", reportPath).Msg("Report written")

	// Metadata is best-effort, the report is the deliverable.
	if err := writeSweepJSON(outputDir, sw); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to write sweep metadata")
	}

	a.printSummary(sw, result)

	if result.Partial {
		a.logger.Warn().Msg("Sweep interrupted, partial report written")
	}
	return nil
}

// selectCases resolves the catalog flags shared by sweep and plan.
func (a *App) selectCases(ctx *cli.Context) ([]model.TestCase, error) {
	var cases []model.TestCase
	var err error

	switch {
	case ctx.String("catalog") != "":
		cases, err = catalog.Load(ctx.String("catalog"))
		if err != nil {
			return nil, err
		}
	case ctx.Bool("quick"):
		cases = catalog.Quick()
	default:
		cases = catalog.Full()
	}

	if err := catalog.Validate(cases); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	if n := ctx.Int("iters"); n > 0 {
		cases = catalog.OverrideIters(cases, n)
		a.logger.Debug().Int("iters", n).Msg("Applied uniform iteration override")
	}

	if only := ctx.String("only"); only != "" {
		cases, err = catalog.Select(cases, strings.Split(only, ","))
		if err != nil {
			return nil, err
		}
		a.logger.Info().Int("selected", len(cases)).Msg("Running a subset of the catalog")
	}

	return cases, nil
}

// preflight verifies everything a sweep needs before any run starts.
// Failures here abort with a non-zero exit; per-run failures never do.
func (a *App) preflight(binary, dataDir, outputDir string) error {
	info, err := os.Stat(binary)
	if err != nil {
		return fmt.Errorf("reconstruction binary not found at %s: %w", binary, err)
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return fmt.Errorf("reconstruction binary %s is not executable", binary)
	}

	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		return fmt.Errorf("input dataset directory not found at %s", dataDir)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", outputDir, err)
	}
	return nil
}

func (a *App) printPlan(cases []model.TestCase, parallelism, deviceCount int, outputDir string) {
	title := color.New(color.FgHiCyan, color.Bold).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintln(os.Stderr, title("Sweep plan"))
	fmt.Fprintf(os.Stderr, "  Parallelism: %d\n", parallelism)
	fmt.Fprintf(os.Stderr, "  Devices:     %d\n", deviceCount)
	fmt.Fprintf(os.Stderr, "  Output:      %s\n", outputDir)
	for i, tc := range cases {
		params := tc.ParamString()
		if params == "" {
			params = "(defaults)"
		}
		fmt.Fprintf(os.Stderr, "  %2d. %-20s %s\n", i+1, tc.Name, tc.Description)
		fmt.Fprintf(os.Stderr, "      %s\n", dim(params))
	}
}

func (a *App) printSummary(sw model.Sweep, result *model.SweepResult) {
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	bad := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	success := result.CountStatus(model.StatusSuccess)
	failed := result.CountStatus(model.StatusFailed)
	timedOut := result.CountStatus(model.StatusTimeout)
	serial := result.SerialDuration()

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "%s %d/%d succeeded\n", ok("✔"), success, len(result.Records))
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%s %d failed\n", bad("✘"), failed)
	}
	if timedOut > 0 {
		fmt.Fprintf(os.Stderr, "%s %d timed out\n", bad("✘"), timedOut)
	}
	fmt.Fprintf(os.Stderr, "%s\n", dim(fmt.Sprintf("serial estimate %.1fs, wall %.1fs",
		serial.Seconds(), sw.Duration.Seconds())))
	if sw.Duration > 0 && serial > sw.Duration {
		fmt.Fprintf(os.Stderr, "%s\n", dim(fmt.Sprintf("speedup %.1fx",
			serial.Seconds()/sw.Duration.Seconds())))
	}
}

func writeSweepJSON(outputDir string, sw model.Sweep) error {
	data, err := json.MarshalIndent(sw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sweep metadata: %w", err)
	}
	path := filepath.Join(outputDir, "sweep.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sweep metadata: %w", err)
	}
	return nil
}
