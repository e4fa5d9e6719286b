package report

// report.go renders the markdown sweep report written to the output
// directory at sweep completion (or interrupt, marked partial).

import (
	"fmt"
	"strings"

	"github.com/splatsweep/splatsweep/model"
)

// stderrExcerptLimit bounds the stderr excerpt shown per failure.
const stderrExcerptLimit = 500

// Glyph returns the status marker used in report tables.
func Glyph(status model.Status) string {
	switch status {
	case model.StatusSuccess:
		return "✅"
	case model.StatusFailed:
		return "❌"
	case model.StatusTimeout:
		return "⏱️"
	case model.StatusSkipped:
		return "⏭️"
	}
	return "?"
}

// Markdown renders the full sweep report. Every test case appears
// exactly once in the results table, whatever its status.
func Markdown(sw model.Sweep) string {
	var b strings.Builder

	result := model.SweepResult{Records: sw.Records, Partial: sw.Partial}

	b.WriteString("# Parameter Sweep Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", sw.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Sweep ID:** %s\n", sw.ID)
	fmt.Fprintf(&b, "**Binary:** `%s`\n", sw.Binary)
	fmt.Fprintf(&b, "**Data:** `%s`\n", sw.DataDir)
	fmt.Fprintf(&b, "**Runs:** %d\n", len(sw.Records))
	fmt.Fprintf(&b, "**Parallelism:** %d\n", sw.Parallelism)
	fmt.Fprintf(&b, "**Devices:** %d\n", sw.DeviceCount)
	fmt.Fprintf(&b, "**Total duration:** %.1fs\n", sw.Duration.Seconds())

	if sw.Partial {
		b.WriteString("\n> **Partial report:** the sweep was interrupted before every test case ran.\n")
	}

	b.WriteString("\n---\n\n## Results\n\n")
	b.WriteString("| Test | Description | Parameters | Status | Device | Duration | Artifact |\n")
	b.WriteString("|------|-------------|------------|--------|--------|----------|----------|\n")
	for _, rec := range sw.Records {
		fmt.Fprintf(&b, "| %s | %s | `%s` | %s %s | %s | %.1fs | %s |\n",
			rec.TestCase.Name,
			escapeCell(rec.TestCase.Description),
			paramCell(rec.TestCase),
			Glyph(rec.Status), rec.Status,
			deviceCell(rec.Device),
			rec.Duration.Seconds(),
			artifactCell(rec),
		)
	}

	var failures []model.RunRecord
	for _, rec := range sw.Records {
		if rec.Status == model.StatusFailed || rec.Status == model.StatusTimeout {
			failures = append(failures, rec)
		}
	}
	if len(failures) > 0 {
		b.WriteString("\n---\n\n## Failures\n")
		for _, rec := range failures {
			fmt.Fprintf(&b, "\n### %s\n\n", rec.TestCase.Name)
			fmt.Fprintf(&b, "- **Status:** %s\n", rec.Status)
			if rec.Status == model.StatusFailed {
				fmt.Fprintf(&b, "- **Exit code:** %d\n", rec.ExitCode)
			}
			if rec.Command != "" {
				fmt.Fprintf(&b, "- **Command:** `%s`\n", rec.Command)
			}
			if rec.StderrTail != "" {
				excerpt := rec.StderrTail
				if len(excerpt) > stderrExcerptLimit {
					excerpt = excerpt[:stderrExcerptLimit]
				}
				fmt.Fprintf(&b, "- **Stderr:**\n\n```\n%s\n```\n", strings.TrimSpace(excerpt))
			}
		}
	}

	writeGroupSections(&b, sw.Records)

	if sw.Partial {
		skipped := result.CountStatus(model.StatusSkipped)
		fmt.Fprintf(&b, "\n---\n\n%d test case(s) were never dispatched and are marked skipped.\n", skipped)
	}

	return b.String()
}

// writeGroupSections renders per-axis comparison tables for groups with
// at least two runs, supporting the "vary one dimension" analysis.
func writeGroupSections(b *strings.Builder, records []model.RunRecord) {
	grouped := make(map[string][]model.RunRecord)
	for _, rec := range records {
		label := GroupLabel(rec.TestCase.Name)
		grouped[label] = append(grouped[label], rec)
	}

	wroteHeader := false
	for _, label := range groupOrder() {
		group := grouped[label]
		if len(group) < 2 {
			continue
		}
		if !wroteHeader {
			b.WriteString("\n---\n\n## Comparison by axis\n")
			wroteHeader = true
		}
		fmt.Fprintf(b, "\n### %s\n\n", label)
		b.WriteString("| Test | Status | Duration | Artifact size |\n")
		b.WriteString("|------|--------|----------|---------------|\n")
		for _, rec := range group {
			fmt.Fprintf(b, "| %s | %s %s | %.1fs | %s |\n",
				rec.TestCase.Name,
				Glyph(rec.Status), rec.Status,
				rec.Duration.Seconds(),
				sizeCell(rec.OutputSize),
			)
		}
	}
}

func paramCell(tc model.TestCase) string {
	s := tc.ParamString()
	if s == "" {
		return "(defaults)"
	}
	return escapeCell(s)
}

func deviceCell(device int) string {
	if device == model.DeviceNone {
		return "-"
	}
	return fmt.Sprintf("%d", device)
}

func artifactCell(rec model.RunRecord) string {
	if rec.Status != model.StatusSuccess || rec.OutputPath == "" {
		return "-"
	}
	name := rec.OutputPath
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return fmt.Sprintf("%s (%s)", name, sizeCell(rec.OutputSize))
}

func sizeCell(bytes int64) string {
	if bytes <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

// escapeCell keeps free text from breaking the markdown table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
