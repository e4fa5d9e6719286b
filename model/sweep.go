package model

import "time"

// Sweep is the metadata record for one full sweep, persisted as
// sweep.json in the output directory next to the artifacts.
type Sweep struct {
	// Unique ID for this sweep
	ID string `json:"id"`
	// Timestamp when the sweep started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Number of concurrent execution slots
	Parallelism int `json:"parallelism"`
	// Number of devices used for round-robin assignment (0 = no pinning)
	DeviceCount int `json:"device_count"`
	// Path to the reconstruction binary
	Binary string `json:"binary"`
	// Input dataset directory
	DataDir string `json:"data_dir"`
	// Artifact output directory
	OutputDir string `json:"output_dir"`
	// Total wall-clock duration of the sweep
	Duration time.Duration `json:"duration"`
	// Set when the sweep was interrupted before completion
	Partial bool `json:"partial,omitempty"`
	// One record per test case, in catalog order
	Records []RunRecord `json:"records"`
}
