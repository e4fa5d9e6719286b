package sweep

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/splatsweep/splatsweep/model"
)

// writeScript drops an executable shell script standing in for the
// reconstruction binary. The invoker always passes "-o <path>" first,
// so scripts can rely on $2 being the artifact target.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub not available on windows")
	}
	path := filepath.Join(t.TempDir(), "opensplat")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func newInvoker(t *testing.T, binary string) *BinaryInvoker {
	t.Helper()
	return &BinaryInvoker{
		Logger:    zerolog.Nop(),
		Binary:    binary,
		DataDir:   t.TempDir(),
		OutputDir: t.TempDir(),
	}
}

func TestInvokerSuccess(t *testing.T) {
	inv := newInvoker(t, writeScript(t, `echo splat-data > "$2"`))
	tc := model.TestCase{
		Name:   "baseline",
		Params: []model.Param{{Flag: "num-iters", Value: "1000"}},
	}

	rec := inv.Run(context.Background(), tc, 0)

	require.Equal(t, model.StatusSuccess, rec.Status)
	require.Equal(t, 0, rec.ExitCode)
	require.Greater(t, rec.OutputSize, int64(0))
	require.Equal(t, filepath.Join(inv.OutputDir, "baseline.ply"), rec.OutputPath)
	require.FileExists(t, rec.OutputPath)
	require.Greater(t, rec.Duration, time.Duration(0))
}

func TestInvokerNonZeroExit(t *testing.T) {
	inv := newInvoker(t, writeScript(t, `echo boom >&2; exit 3`))
	tc := model.TestCase{Name: "bad"}

	rec := inv.Run(context.Background(), tc, 1)

	require.Equal(t, model.StatusFailed, rec.Status)
	require.Equal(t, 3, rec.ExitCode)
	require.Contains(t, rec.StderrTail, "boom")
}

func TestInvokerLaunchFailure(t *testing.T) {
	inv := newInvoker(t, filepath.Join(t.TempDir(), "does-not-exist"))
	tc := model.TestCase{Name: "missing"}

	rec := inv.Run(context.Background(), tc, 0)

	require.Equal(t, model.StatusFailed, rec.Status)
	require.NotEmpty(t, rec.StderrTail)
}

func TestInvokerMissingArtifactFailsCleanExit(t *testing.T) {
	inv := newInvoker(t, writeScript(t, `exit 0`))
	tc := model.TestCase{Name: "noartifact"}

	rec := inv.Run(context.Background(), tc, 0)

	require.Equal(t, model.StatusFailed, rec.Status)
	require.Equal(t, 0, rec.ExitCode)
	require.Contains(t, rec.StderrTail, "no output artifact")
}

func TestInvokerEmptyArtifactFails(t *testing.T) {
	inv := newInvoker(t, writeScript(t, `: > "$2"`))
	tc := model.TestCase{Name: "empty"}

	rec := inv.Run(context.Background(), tc, 0)

	require.Equal(t, model.StatusFailed, rec.Status)
}

func TestInvokerTimeout(t *testing.T) {
	inv := newInvoker(t, writeScript(t, `exec sleep 10`))
	inv.Timeout = 100 * time.Millisecond
	tc := model.TestCase{Name: "hang"}

	start := time.Now()
	rec := inv.Run(context.Background(), tc, 0)

	require.Equal(t, model.StatusTimeout, rec.Status)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestInvokerDeviceScoping(t *testing.T) {
	// The script writes the device restriction it sees into the artifact.
	inv := newInvoker(t, writeScript(t, `printf '%s' "${CUDA_VISIBLE_DEVICES:-unset}" > "$2"`))

	t.Run("pinned", func(t *testing.T) {
		rec := inv.Run(context.Background(), model.TestCase{Name: "pinned"}, 1)
		require.Equal(t, model.StatusSuccess, rec.Status)
		data, err := os.ReadFile(rec.OutputPath)
		require.NoError(t, err)
		require.Equal(t, "1", string(data))
	})

	t.Run("unpinned", func(t *testing.T) {
		t.Setenv("CUDA_VISIBLE_DEVICES", "")
		os.Unsetenv("CUDA_VISIBLE_DEVICES")
		rec := inv.Run(context.Background(), model.TestCase{Name: "unpinned"}, model.DeviceNone)
		require.Equal(t, model.StatusSuccess, rec.Status)
		data, err := os.ReadFile(rec.OutputPath)
		require.NoError(t, err)
		require.Equal(t, "unset", string(data))
	})
}

func TestInvokerBuildArgs(t *testing.T) {
	inv := &BinaryInvoker{
		Binary:    "./opensplat",
		DataDir:   "./banana",
		OutputDir: "out",
	}
	tc := model.TestCase{
		Name: "scale_4",
		Params: []model.Param{
			{Flag: "downscale-factor", Value: "4"},
			{Flag: "num-iters", Value: "1000"},
			{Flag: "-n", Value: "5"},
		},
	}

	got := inv.BuildArgs(tc)
	want := []string{
		"-o", filepath.Join("out", "scale_4.ply"),
		"--downscale-factor", "4",
		"--num-iters", "1000",
		"-n", "5",
		"./banana",
	}
	require.Equal(t, want, got)
}

func TestInvokerCommandString(t *testing.T) {
	inv := &BinaryInvoker{
		Binary:    "./opensplat",
		DataDir:   "./banana",
		OutputDir: "out",
	}
	tc := model.TestCase{Name: "baseline", Params: []model.Param{{Flag: "num-iters", Value: "1000"}}}

	pinned := inv.CommandString(tc, 1)
	require.True(t, strings.HasPrefix(pinned, "CUDA_VISIBLE_DEVICES=1 "))
	require.Contains(t, pinned, "--num-iters 1000")

	unpinned := inv.CommandString(tc, model.DeviceNone)
	require.NotContains(t, unpinned, "CUDA_VISIBLE_DEVICES")
}
