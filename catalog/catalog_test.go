package catalog

import (
	"errors"
	"testing"

	"github.com/splatsweep/splatsweep/model"
)

func TestBuiltinCatalogsAreValid(t *testing.T) {
	for _, tt := range []struct {
		name  string
		cases []model.TestCase
	}{
		{"full", Full()},
		{"quick", Quick()},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.cases) == 0 {
				t.Fatal("catalog is empty")
			}
			if err := Validate(tt.cases); err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.cases[0].Name != "baseline" {
				t.Errorf("first entry = %q, want baseline", tt.cases[0].Name)
			}
		})
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	cases := []model.TestCase{
		{Name: "baseline"},
		{Name: "scale_4"},
		{Name: "baseline"},
	}

	err := Validate(cases)
	if err == nil {
		t.Fatal("Validate() = nil, want DuplicateNameError")
	}
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("Validate() = %T, want *DuplicateNameError", err)
	}
	if dup.Name != "baseline" {
		t.Errorf("duplicate name = %q, want baseline", dup.Name)
	}
}

func TestOverrideIters(t *testing.T) {
	cases := []model.TestCase{
		{Name: "baseline", Params: []model.Param{{Flag: "num-iters", Value: "1000"}}},
		{Name: "scale_4", Params: []model.Param{
			{Flag: "downscale-factor", Value: "4"},
			{Flag: "num-iters", Value: "1000"},
		}},
		{Name: "defaults"},
	}

	out := OverrideIters(cases, 3000)

	for _, tc := range out {
		found := false
		for _, p := range tc.Params {
			if p.Flag == "num-iters" {
				found = true
				if p.Value != "3000" {
					t.Errorf("%s: num-iters = %q, want 3000", tc.Name, p.Value)
				}
			}
		}
		if !found {
			t.Errorf("%s: num-iters param missing after override", tc.Name)
		}
	}

	// Non-iteration params keep their position.
	if out[1].Params[0].Flag != "downscale-factor" {
		t.Errorf("param order changed: first flag = %q", out[1].Params[0].Flag)
	}

	// Input must stay untouched.
	if cases[0].Params[0].Value != "1000" {
		t.Errorf("input catalog mutated: %q", cases[0].Params[0].Value)
	}
	if len(cases[2].Params) != 0 {
		t.Errorf("input catalog mutated: params appended to defaults entry")
	}
}

func TestSelect(t *testing.T) {
	cases := Full()

	t.Run("preserves catalog order", func(t *testing.T) {
		got, err := Select(cases, []string{"scale_4", "baseline"})
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if len(got) != 2 || got[0].Name != "baseline" || got[1].Name != "scale_4" {
			t.Errorf("Select() = %v, want [baseline scale_4]", names(got))
		}
	})

	t.Run("ignores unknown when others match", func(t *testing.T) {
		got, err := Select(cases, []string{"no_such_case", "baseline"})
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "baseline" {
			t.Errorf("Select() = %v, want [baseline]", names(got))
		}
	})

	t.Run("errors when nothing matches", func(t *testing.T) {
		if _, err := Select(cases, []string{"no_such_case"}); err == nil {
			t.Error("Select() = nil, want error")
		}
	})
}

func names(cases []model.TestCase) []string {
	out := make([]string, len(cases))
	for i, tc := range cases {
		out[i] = tc.Name
	}
	return out
}
