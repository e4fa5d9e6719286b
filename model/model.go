package model

import (
	"strings"
	"time"
)

// DeviceNone marks a run that is not pinned to any device. The invoker
// leaves CUDA_VISIBLE_DEVICES untouched in that case.
const DeviceNone = -1

// Status classifies the outcome of one test case execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
	StatusSkipped Status = "skipped"
)

// Param is one flag/value pair passed to the reconstruction binary.
// Parameters are kept as a slice, not a map, so catalog order carries
// through to command lines and reports unchanged.
type Param struct {
	Flag  string `json:"flag" yaml:"flag"`
	Value string `json:"value" yaml:"value"`
}

// TestCase is one named, immutable parameter configuration. The name is
// unique within a catalog and doubles as the artifact filename stem.
type TestCase struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Params      []Param `json:"params,omitempty"`
}

// Args renders the parameters as command-line arguments in catalog order.
// Flags already carrying a dash prefix are passed through untouched.
func (tc TestCase) Args() []string {
	args := make([]string, 0, len(tc.Params)*2)
	for _, p := range tc.Params {
		flag := p.Flag
		if !strings.HasPrefix(flag, "-") {
			flag = "--" + flag
		}
		args = append(args, flag, p.Value)
	}
	return args
}

// ParamString renders the parameters for display, e.g. "--num-iters 1000".
func (tc TestCase) ParamString() string {
	return strings.Join(tc.Args(), " ")
}

// RunRecord is the outcome of executing one TestCase. It is created once
// by the invoker (or by the scheduler for skipped entries) and never
// mutated afterwards.
type RunRecord struct {
	TestCase TestCase `json:"test_case"`
	// Assigned device index, DeviceNone when the run was not pinned
	Device int `json:"device"`
	// Outcome classification
	Status Status `json:"status"`
	// Exit code of the subprocess (0 when it never launched)
	ExitCode int `json:"exit_code"`
	// Wall-clock duration around the subprocess call
	Duration time.Duration `json:"duration"`
	// Expected artifact location; not guaranteed to exist unless Status is success
	OutputPath string `json:"output_path,omitempty"`
	// Artifact size in bytes, populated on success
	OutputSize int64 `json:"output_size,omitempty"`
	// Bounded stderr excerpt for diagnostics, includes launch errors
	StderrTail string `json:"stderr_tail,omitempty"`
	// Rendered command line for reproduction
	Command string `json:"command,omitempty"`
}

// SweepResult is the ordered collection of RunRecords for one sweep.
// Record order equals catalog order regardless of completion order.
type SweepResult struct {
	Records []RunRecord `json:"records"`
	// Partial is set when the sweep was interrupted before every test
	// case could be dispatched.
	Partial bool `json:"partial,omitempty"`
}

// ByName looks up a record by test case name.
func (s *SweepResult) ByName(name string) (RunRecord, bool) {
	for _, r := range s.Records {
		if r.TestCase.Name == name {
			return r, true
		}
	}
	return RunRecord{}, false
}

// CountStatus returns how many records carry the given status.
func (s *SweepResult) CountStatus(status Status) int {
	n := 0
	for _, r := range s.Records {
		if r.Status == status {
			n++
		}
	}
	return n
}

// SerialDuration sums all run durations, the estimated serial wall time.
func (s *SweepResult) SerialDuration() time.Duration {
	var total time.Duration
	for _, r := range s.Records {
		total += r.Duration
	}
	return total
}
