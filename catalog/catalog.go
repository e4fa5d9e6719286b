// Package catalog defines the built-in parameter sweep catalogs and the
// helpers that shape them before a sweep starts. Catalogs are pure data:
// ordered sequences of named test cases with no side effects.
package catalog

import (
	"fmt"
	"strings"

	"github.com/splatsweep/splatsweep/model"
)

// DuplicateNameError reports two catalog entries sharing a name. Names
// are used both as map keys and artifact filename stems, so this is
// always fatal before any run starts.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate test case name: %s", e.Name)
}

// Full returns the complete parameter comparison catalog: a baseline
// plus one group per tuning axis and a composite preview configuration.
func Full() []model.TestCase {
	return []model.TestCase{
		{
			Name:        "baseline",
			Description: "Baseline configuration (1000 iterations)",
			Params:      []model.Param{{Flag: "num-iters", Value: "1000"}},
		},
		{
			Name:        "scale_1",
			Description: "Full resolution (high quality, slow)",
			Params: []model.Param{
				{Flag: "downscale-factor", Value: "1"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "scale_2",
			Description: "1/2 resolution (balanced)",
			Params: []model.Param{
				{Flag: "downscale-factor", Value: "2"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "scale_4",
			Description: "1/4 resolution (fast preview)",
			Params: []model.Param{
				{Flag: "downscale-factor", Value: "4"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "sh_1",
			Description: "SH degree 1 (basic lighting, fastest)",
			Params: []model.Param{
				{Flag: "sh-degree", Value: "1"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "sh_2",
			Description: "SH degree 2 (medium lighting)",
			Params: []model.Param{
				{Flag: "sh-degree", Value: "2"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "sh_3",
			Description: "SH degree 3 (default, full lighting)",
			Params: []model.Param{
				{Flag: "sh-degree", Value: "3"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "ssim_0",
			Description: "SSIM weight 0 (pure L1 loss)",
			Params: []model.Param{
				{Flag: "ssim-weight", Value: "0"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "ssim_0.2",
			Description: "SSIM weight 0.2 (default balance)",
			Params: []model.Param{
				{Flag: "ssim-weight", Value: "0.2"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "ssim_0.5",
			Description: "SSIM weight 0.5 (emphasize structural similarity)",
			Params: []model.Param{
				{Flag: "ssim-weight", Value: "0.5"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "refine_50",
			Description: "Refine every 50 steps (more gaussians)",
			Params: []model.Param{
				{Flag: "refine-every", Value: "50"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "refine_100",
			Description: "Refine every 100 steps (default)",
			Params: []model.Param{
				{Flag: "refine-every", Value: "100"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "refine_200",
			Description: "Refine every 200 steps (sparser, fewer gaussians)",
			Params: []model.Param{
				{Flag: "refine-every", Value: "200"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "grad_0.0001",
			Description: "Gradient threshold 0.0001 (more sensitive, more splits)",
			Params: []model.Param{
				{Flag: "densify-grad-thresh", Value: "0.0001"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "grad_0.0002",
			Description: "Gradient threshold 0.0002 (default)",
			Params: []model.Param{
				{Flag: "densify-grad-thresh", Value: "0.0002"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "grad_0.0004",
			Description: "Gradient threshold 0.0004 (less sensitive, fewer splits)",
			Params: []model.Param{
				{Flag: "densify-grad-thresh", Value: "0.0004"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "size_0.005",
			Description: "Size threshold 0.005 (more duplication)",
			Params: []model.Param{
				{Flag: "densify-size-thresh", Value: "0.005"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "size_0.01",
			Description: "Size threshold 0.01 (default)",
			Params: []model.Param{
				{Flag: "densify-size-thresh", Value: "0.01"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "size_0.02",
			Description: "Size threshold 0.02 (more splits)",
			Params: []model.Param{
				{Flag: "densify-size-thresh", Value: "0.02"},
				{Flag: "num-iters", Value: "1000"},
			},
		},
		{
			Name:        "fast_preview",
			Description: "Fast preview configuration (trades quality for speed)",
			Params: []model.Param{
				{Flag: "downscale-factor", Value: "4"},
				{Flag: "num-iters", Value: "1000"},
				{Flag: "sh-degree", Value: "1"},
				{Flag: "refine-every", Value: "200"},
			},
		},
	}
}

// Quick returns the reduced catalog covering one configuration per axis,
// for fast validation sweeps.
func Quick() []model.TestCase {
	return []model.TestCase{
		{
			Name:        "baseline",
			Description: "Default parameters",
		},
		{
			Name:        "fast",
			Description: "Fast preview (scale=4, iters=5000)",
			Params: []model.Param{
				{Flag: "downscale-factor", Value: "4"},
				{Flag: "num-iters", Value: "5000"},
			},
		},
		{
			Name:        "high_res",
			Description: "High resolution (scale=1, iters=15000)",
			Params: []model.Param{
				{Flag: "downscale-factor", Value: "1"},
				{Flag: "num-iters", Value: "15000"},
			},
		},
		{
			Name:        "sh1",
			Description: "Simple lighting (sh-degree=1)",
			Params: []model.Param{
				{Flag: "sh-degree", Value: "1"},
				{Flag: "num-iters", Value: "10000"},
			},
		},
		{
			Name:        "ssim_high",
			Description: "Structure emphasis (ssim-weight=0.5)",
			Params: []model.Param{
				{Flag: "ssim-weight", Value: "0.5"},
				{Flag: "num-iters", Value: "10000"},
			},
		},
		{
			Name:        "frequent_refine",
			Description: "Frequent refinement (refine-every=50)",
			Params: []model.Param{
				{Flag: "refine-every", Value: "50"},
				{Flag: "num-iters", Value: "10000"},
			},
		},
		{
			Name:        "sensitive_grad",
			Description: "Sensitive gradients (grad-thresh=0.0001)",
			Params: []model.Param{
				{Flag: "densify-grad-thresh", Value: "0.0001"},
				{Flag: "num-iters", Value: "10000"},
			},
		},
	}
}

// Validate rejects catalogs with duplicate test case names.
func Validate(cases []model.TestCase) error {
	seen := make(map[string]bool, len(cases))
	for _, tc := range cases {
		if seen[tc.Name] {
			return &DuplicateNameError{Name: tc.Name}
		}
		seen[tc.Name] = true
	}
	return nil
}

// OverrideIters returns a copy of the catalog with num-iters forced to n
// on every entry, replacing an existing value or appending one.
func OverrideIters(cases []model.TestCase, n int) []model.TestCase {
	value := fmt.Sprintf("%d", n)
	out := make([]model.TestCase, len(cases))
	for i, tc := range cases {
		params := make([]model.Param, len(tc.Params))
		copy(params, tc.Params)

		replaced := false
		for j, p := range params {
			if strings.TrimLeft(p.Flag, "-") == "num-iters" {
				params[j].Value = value
				replaced = true
			}
		}
		if !replaced {
			params = append(params, model.Param{Flag: "num-iters", Value: value})
		}

		out[i] = tc
		out[i].Params = params
	}
	return out
}

// Select filters the catalog to the given names, preserving catalog
// order. Unknown names are ignored as long as at least one matches.
func Select(cases []model.TestCase, names []string) ([]model.TestCase, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			wanted[n] = true
		}
	}

	var out []model.TestCase
	for _, tc := range cases {
		if wanted[tc.Name] {
			out = append(out, tc)
		}
	}
	if len(out) == 0 {
		available := make([]string, len(cases))
		for i, tc := range cases {
			available[i] = tc.Name
		}
		return nil, fmt.Errorf("no matching test cases for %q (available: %s)",
			strings.Join(names, ","), strings.Join(available, ", "))
	}
	return out, nil
}
