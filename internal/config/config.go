// Package config loads and validates run specs for the cadence CLI.
package config

import (
	"fmt"
	"time"
)

// RunSpec is the YAML form of a simulated workload run. Duration-like
// fields are strings ("250ms", "1m30s") until Resolve parses them.
type RunSpec struct {
	// Name labels the run in output and logs.
	Name string `yaml:"name"`

	// Rate is the target iteration frequency per second.
	Rate float64 `yaml:"rate"`

	// Duration bounds the run by wall-clock time. One of Duration or
	// Iterations must be set; when both are set the run stops at
	// whichever limit is reached first.
	Duration string `yaml:"duration,omitempty"`

	// Iterations bounds the run by iteration count.
	Iterations int64 `yaml:"iterations,omitempty"`

	// Work is the simulated payload duration per iteration.
	Work string `yaml:"work,omitempty"`

	// Jitter adds up to +/- this much uniform noise to each
	// iteration's simulated work.
	Jitter string `yaml:"jitter,omitempty"`

	// Skip enables the skip escape valve once debt exceeds one
	// interval.
	Skip bool `yaml:"skip,omitempty"`

	// SkipWork is the simulated duration of the skip action.
	SkipWork string `yaml:"skipWork,omitempty"`

	// Seed fixes the jitter RNG for reproducible runs. Zero means
	// seed from the current time.
	Seed int64 `yaml:"seed,omitempty"`
}

// Run is a RunSpec with all duration fields parsed.
type Run struct {
	Name       string
	Rate       float64
	Duration   time.Duration
	Iterations int64
	Work       time.Duration
	Jitter     time.Duration
	Skip       bool
	SkipWork   time.Duration
	Seed       int64
}

// Resolve parses the spec's duration strings into a Run. Call Validate
// first; Resolve reports only the first malformed field it hits.
func (s *RunSpec) Resolve() (*Run, error) {
	run := &Run{
		Name:       s.Name,
		Rate:       s.Rate,
		Iterations: s.Iterations,
		Skip:       s.Skip,
		Seed:       s.Seed,
	}

	fields := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"duration", s.Duration, &run.Duration},
		{"work", s.Work, &run.Work},
		{"jitter", s.Jitter, &run.Jitter},
		{"skipWork", s.SkipWork, &run.SkipWork},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.dst = d
	}

	if run.Name == "" {
		run.Name = "cadence"
	}
	return run, nil
}
