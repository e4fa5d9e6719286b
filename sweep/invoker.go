package sweep

// invoker.go executes one test case against the reconstruction binary,
// capturing the outcome into a RunRecord. Nothing here ever returns an
// error for a failed run: failures are values inside the record so one
// bad run cannot abort the sweep.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/rs/zerolog"

	"github.com/splatsweep/splatsweep/model"
)

// ArtifactExt is the artifact file extension produced by the
// reconstruction binary.
const ArtifactExt = ".ply"

// stderrTailLimit bounds the stderr excerpt kept in a RunRecord.
const stderrTailLimit = 2048

// Invoker executes one test case on an assigned device and returns its
// RunRecord. Implementations must not return control before the record
// is complete.
type Invoker interface {
	Run(ctx context.Context, tc model.TestCase, device int) model.RunRecord
}

// BinaryInvoker shells out to the reconstruction binary, one subprocess
// per test case.
type BinaryInvoker struct {
	Logger    zerolog.Logger
	Binary    string
	DataDir   string
	OutputDir string
	// Per-run timeout, zero means unbounded
	Timeout time.Duration
}

// OutputPath returns the artifact location for a test case, named after
// the test case under the output directory.
func (b *BinaryInvoker) OutputPath(tc model.TestCase) string {
	return filepath.Join(b.OutputDir, tc.Name+ArtifactExt)
}

// BuildArgs builds the subprocess argument list: the artifact target,
// the test case parameters in catalog order, then the input directory.
func (b *BinaryInvoker) BuildArgs(tc model.TestCase) []string {
	args := []string{"-o", b.OutputPath(tc)}
	args = append(args, tc.Args()...)
	args = append(args, b.DataDir)
	return args
}

// CommandString renders the full invocation with proper shell escaping,
// including the device-scoping variable, for logs and reports.
func (b *BinaryInvoker) CommandString(tc model.TestCase, device int) string {
	parts := make([]string, 0, len(tc.Params)*2+4)
	if device != model.DeviceNone {
		parts = append(parts, fmt.Sprintf("CUDA_VISIBLE_DEVICES=%d", device))
	}
	parts = append(parts, shellescape.Quote(b.Binary))
	for _, arg := range b.BuildArgs(tc) {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Run executes the test case. The subprocess environment is scoped to
// exactly the assigned device, so a device-naive binary only ever sees
// device 0 from its own perspective. Success requires both a zero exit
// code and a non-empty artifact at the expected path.
func (b *BinaryInvoker) Run(ctx context.Context, tc model.TestCase, device int) model.RunRecord {
	rec := model.RunRecord{
		TestCase:   tc,
		Device:     device,
		OutputPath: b.OutputPath(tc),
		Command:    b.CommandString(tc, device),
	}

	runCtx := ctx
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, b.Binary, b.BuildArgs(tc)...)
	if device != model.DeviceNone {
		cmd.Env = append(os.Environ(), fmt.Sprintf("CUDA_VISIBLE_DEVICES=%d", device))
	}
	// A killed run can leave children holding the output pipes open,
	// which would block Wait past the timeout.
	cmd.WaitDelay = 10 * time.Second

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	b.Logger.Info().
		Str("test", tc.Name).
		Int("device", device).
		Str("command", rec.Command).
		Msg("Starting run")

	start := time.Now()
	err := cmd.Run()
	rec.Duration = time.Since(start)
	rec.StderrTail = tail(stderrBuf.String(), stderrTailLimit)

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		rec.Status = model.StatusTimeout
		b.Logger.Warn().
			Str("test", tc.Name).
			Int("device", device).
			Dur("duration", rec.Duration).
			Msg("Run timed out and was terminated")

	case err != nil:
		rec.Status = model.StatusFailed
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			rec.ExitCode = exitErr.ExitCode()
		} else {
			// Launch failure: binary missing, not executable, etc.
			rec.StderrTail = appendTail(rec.StderrTail, err.Error())
		}
		b.Logger.Warn().
			Str("test", tc.Name).
			Int("device", device).
			Int("exit_code", rec.ExitCode).
			Dur("duration", rec.Duration).
			Msg("Run failed")

	default:
		info, statErr := os.Stat(rec.OutputPath)
		if statErr != nil || info.Size() == 0 {
			rec.Status = model.StatusFailed
			rec.StderrTail = appendTail(rec.StderrTail, "run exited cleanly but produced no output artifact")
			b.Logger.Warn().
				Str("test", tc.Name).
				Str("output", rec.OutputPath).
				Msg("Run produced no output artifact")
		} else {
			rec.Status = model.StatusSuccess
			rec.OutputSize = info.Size()
			b.Logger.Info().
				Str("test", tc.Name).
				Int("device", device).
				Dur("duration", rec.Duration).
				Int64("size", info.Size()).
				Msg("Run succeeded")
		}
	}

	return rec
}

// tail keeps the last limit bytes of s.
func tail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}

func appendTail(existing, msg string) string {
	if existing != "" {
		msg = existing + "\n" + msg
	}
	return tail(msg, stderrTailLimit)
}
