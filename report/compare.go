package report

// compare.go is the offline comparison over an existing output
// directory. It has no coupling to the scheduler beyond the artifact
// naming convention, and its output is deterministic: running it twice
// over an unchanged directory yields byte-identical reports.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Model describes one artifact found in an output directory.
type Model struct {
	// Test case name, recovered from the filename stem
	Name string
	Path string
	Size int64
	// Vertex count from the PLY header; meaningful only when HeaderOK
	Vertices int
	HeaderOK bool
}

// SizeMB returns the artifact size in megabytes.
func (m Model) SizeMB() float64 {
	return float64(m.Size) / (1024 * 1024)
}

// Scan enumerates the PLY artifacts in dir, sorted by name. Header
// parse failures degrade that model's vertex count to unknown, they
// never fail the scan.
func Scan(dir string) ([]Model, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ArtifactGlobExt))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(matches)

	models := make([]Model, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		m := Model{
			Name: strings.TrimSuffix(filepath.Base(path), ArtifactGlobExt),
			Path: path,
			Size: info.Size(),
		}
		if n, err := VertexCountFile(path); err == nil {
			m.Vertices = n
			m.HeaderOK = true
		}
		models = append(models, m)
	}
	return models, nil
}

// ArtifactGlobExt mirrors the sweep artifact extension without
// importing the sweep package.
const ArtifactGlobExt = ".ply"

const ruler = "======================================================================"

// Comparison renders the grouped comparison report for scanned models.
func Comparison(models []Model) string {
	var b strings.Builder

	b.WriteString(ruler + "\n")
	b.WriteString("Artifact comparison\n")
	b.WriteString(ruler + "\n")

	grouped := make(map[string][]Model)
	for _, m := range models {
		label := GroupLabel(m.Name)
		grouped[label] = append(grouped[label], m)
	}

	for _, label := range groupOrder() {
		group := grouped[label]
		if len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if group[i].Size != group[j].Size {
				return group[i].Size < group[j].Size
			}
			return group[i].Name < group[j].Name
		})

		fmt.Fprintf(&b, "\n[%s]\n", label)
		fmt.Fprintf(&b, "%-20s %12s %15s %15s\n", "Name", "Size", "Vertices", "MB/10k pts")
		b.WriteString(strings.Repeat("-", 70) + "\n")
		for _, m := range group {
			fmt.Fprintf(&b, "%-20s %9.2f MB %15s %15s\n",
				m.Name, m.SizeMB(), vertexCell(m), efficiencyCell(m))
		}
	}

	writeTotals(&b, models)
	writeExtremes(&b, models)

	return b.String()
}

func writeTotals(b *strings.Builder, models []Model) {
	b.WriteString("\n" + ruler + "\n")
	b.WriteString("Totals\n")
	b.WriteString(ruler + "\n")
	fmt.Fprintf(b, "Models: %d\n", len(models))
	if len(models) == 0 {
		return
	}

	minSize, maxSize, sumSize := models[0].SizeMB(), models[0].SizeMB(), 0.0
	for _, m := range models {
		if m.SizeMB() < minSize {
			minSize = m.SizeMB()
		}
		if m.SizeMB() > maxSize {
			maxSize = m.SizeMB()
		}
		sumSize += m.SizeMB()
	}
	fmt.Fprintf(b, "Size range: %.2f - %.2f MB (avg %.2f MB)\n",
		minSize, maxSize, sumSize/float64(len(models)))

	var verts []int
	for _, m := range models {
		if m.HeaderOK {
			verts = append(verts, m.Vertices)
		}
	}
	if len(verts) > 0 {
		minV, maxV, sumV := verts[0], verts[0], 0
		for _, v := range verts {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			sumV += v
		}
		fmt.Fprintf(b, "Vertex range: %s - %s (avg %s)\n",
			comma(minV), comma(maxV), comma(sumV/len(verts)))
	}
}

func writeExtremes(b *strings.Builder, models []Model) {
	if len(models) == 0 {
		return
	}
	b.WriteString("\n" + ruler + "\n")
	b.WriteString("Extremes\n")
	b.WriteString(ruler + "\n")

	largest, smallest := models[0], models[0]
	for _, m := range models {
		if m.Size > largest.Size {
			largest = m
		}
		if m.Size < smallest.Size {
			smallest = m
		}
	}
	fmt.Fprintf(b, "Largest:  %s (%.2f MB)\n", largest.Name, largest.SizeMB())
	fmt.Fprintf(b, "Smallest: %s (%.2f MB)\n", smallest.Name, smallest.SizeMB())
	if smallest.Size > 0 {
		fmt.Fprintf(b, "Ratio:    %.1fx\n", float64(largest.Size)/float64(smallest.Size))
	}
}

func vertexCell(m Model) string {
	if !m.HeaderOK {
		return "unknown"
	}
	return comma(m.Vertices)
}

// efficiencyCell renders megabytes per 10k vertices.
func efficiencyCell(m Model) string {
	if !m.HeaderOK || m.Vertices == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", m.SizeMB()/(float64(m.Vertices)/10000))
}

// comma formats n with thousands separators.
func comma(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
