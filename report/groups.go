package report

// groups.go maps test case names to the parameter axis they vary,
// following the catalog naming convention (scale_*, sh_*, ...). The
// grouping powers the "compare one axis" views in both the sweep
// report and the offline comparison.

import "strings"

type axis struct {
	Label  string
	Prefix string
}

var axes = []axis{
	{"Iteration count", "iters_"},
	{"Image resolution", "scale_"},
	{"SH degree", "sh_"},
	{"SSIM weight", "ssim_"},
	{"Refine interval", "refine_"},
	{"Gradient threshold", "grad_"},
	{"Size threshold", "size_"},
}

var compositeNames = map[string]bool{
	"baseline":     true,
	"fast_preview": true,
	"quality":      true,
	"fast":         true,
	"high_res":     true,
}

const (
	groupComposite = "Composite configurations"
	groupOther     = "Other"
)

// GroupLabel returns the axis label for a test case name.
func GroupLabel(name string) string {
	for _, a := range axes {
		if strings.HasPrefix(name, a.Prefix) {
			return a.Label
		}
	}
	if compositeNames[name] {
		return groupComposite
	}
	return groupOther
}

// groupOrder is the fixed rendering order for group sections.
func groupOrder() []string {
	out := make([]string, 0, len(axes)+2)
	for _, a := range axes {
		out = append(out, a.Label)
	}
	return append(out, groupComposite, groupOther)
}
