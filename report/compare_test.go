package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, dir, name string, vertices, bodyBytes int) {
	t.Helper()
	content := fmt.Sprintf("ply\nformat binary_little_endian 1.0\nelement vertex %d\nend_header\n", vertices)
	content += strings.Repeat("x", bodyBytes)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".ply"), []byte(content), 0644))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "scale_4", 1000, 64)
	writeArtifact(t, dir, "baseline", 2000, 256)
	// Corrupt artifact: size known, vertices unknown.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.ply"), []byte("not a ply"), 0644))
	// Non-artifact files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.md"), []byte("# hi"), 0644))

	models, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, models, 3)

	// Sorted by name.
	require.Equal(t, "baseline", models[0].Name)
	require.Equal(t, "broken", models[1].Name)
	require.Equal(t, "scale_4", models[2].Name)

	require.True(t, models[0].HeaderOK)
	require.Equal(t, 2000, models[0].Vertices)
	require.False(t, models[1].HeaderOK)
}

func TestScanEmptyDir(t *testing.T) {
	models, err := Scan(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, models)
}

func TestComparisonIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "scale_1", 30000, 900)
	writeArtifact(t, dir, "scale_2", 20000, 600)
	writeArtifact(t, dir, "scale_4", 10000, 300)
	writeArtifact(t, dir, "baseline", 25000, 700)

	first, err := Scan(dir)
	require.NoError(t, err)
	second, err := Scan(dir)
	require.NoError(t, err)

	require.Equal(t, Comparison(first), Comparison(second))
}

func TestComparisonGrouping(t *testing.T) {
	models := []Model{
		{Name: "scale_1", Size: 3 << 20, Vertices: 30000, HeaderOK: true},
		{Name: "scale_4", Size: 1 << 20, Vertices: 10000, HeaderOK: true},
		{Name: "baseline", Size: 2 << 20, Vertices: 20000, HeaderOK: true},
		{Name: "mystery", Size: 1 << 20},
	}

	out := Comparison(models)

	require.Contains(t, out, "[Image resolution]")
	require.Contains(t, out, "[Composite configurations]")
	require.Contains(t, out, "[Other]")
	require.Contains(t, out, "unknown")
	require.Contains(t, out, "Models: 4")
	require.Contains(t, out, "Largest:  scale_1")

	// Within a group, entries are ordered by ascending size.
	require.Less(t, strings.Index(out, "scale_4"), strings.Index(out, "scale_1"))
}

func TestGroupLabel(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"scale_4", "Image resolution"},
		{"sh_2", "SH degree"},
		{"ssim_0.5", "SSIM weight"},
		{"refine_50", "Refine interval"},
		{"grad_0.0001", "Gradient threshold"},
		{"size_0.01", "Size threshold"},
		{"iters_30000", "Iteration count"},
		{"baseline", "Composite configurations"},
		{"fast_preview", "Composite configurations"},
		{"something_else", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GroupLabel(tt.name); got != tt.want {
				t.Errorf("GroupLabel(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
