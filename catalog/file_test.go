package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalogFile(t, `
- name: baseline
  description: Baseline run
  params:
    - flag: num-iters
      value: "1000"
- name: scale_4
  params:
    - flag: downscale-factor
      value: "4"
    - flag: num-iters
      value: "1000"
`)

	cases, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	require.Equal(t, "baseline", cases[0].Name)
	require.Equal(t, "Baseline run", cases[0].Description)
	require.Equal(t, []string{"--num-iters", "1000"}, cases[0].Args())

	// Parameter order from the file is preserved.
	require.Equal(t, []string{"--downscale-factor", "4", "--num-iters", "1000"}, cases[1].Args())
}

func TestLoadRejectsDuplicates(t *testing.T) {
	path := writeCatalogFile(t, `
- name: baseline
- name: baseline
`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate test case name")
}

func TestLoadRejectsMissingName(t *testing.T) {
	path := writeCatalogFile(t, `
- description: no name here
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsEmpty(t *testing.T) {
	path := writeCatalogFile(t, "")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
