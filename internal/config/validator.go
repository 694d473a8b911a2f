package config

import (
	"fmt"
	"math"
	"time"
)

// ValidationError represents a run spec validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks the run spec's field-level semantics and returns
// every problem found, not just the first.
func Validate(spec *RunSpec) []ValidationError {
	var errors []ValidationError

	if spec.Rate <= 0 || math.IsNaN(spec.Rate) || math.IsInf(spec.Rate, 0) {
		errors = append(errors, ValidationError{
			Path:    "rate",
			Message: fmt.Sprintf("must be a positive, finite number, got %v", spec.Rate),
		})
	}

	if spec.Duration == "" && spec.Iterations == 0 {
		errors = append(errors, ValidationError{
			Path:    "duration",
			Message: "either duration or iterations is required",
		})
	}
	if spec.Iterations < 0 {
		errors = append(errors, ValidationError{
			Path:    "iterations",
			Message: fmt.Sprintf("must be positive, got %d", spec.Iterations),
		})
	}

	durations := []struct {
		path  string
		value string
	}{
		{"duration", spec.Duration},
		{"work", spec.Work},
		{"jitter", spec.Jitter},
		{"skipWork", spec.SkipWork},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			errors = append(errors, ValidationError{
				Path:    d.path,
				Message: fmt.Sprintf("invalid duration: %s", d.value),
			})
			continue
		}
		if parsed < 0 {
			errors = append(errors, ValidationError{
				Path:    d.path,
				Message: fmt.Sprintf("must not be negative, got %s", d.value),
			})
		}
	}

	if spec.SkipWork != "" && !spec.Skip {
		errors = append(errors, ValidationError{
			Path:    "skipWork",
			Message: "skipWork is set but skip is disabled",
		})
	}

	return errors
}
