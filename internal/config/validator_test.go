package config

import (
	"math"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		spec      RunSpec
		wantPaths []string
	}{
		{
			name: "valid duration-bound run",
			spec: RunSpec{Rate: 50, Duration: "5s", Work: "2ms"},
		},
		{
			name: "valid iteration-bound run",
			spec: RunSpec{Rate: 50, Iterations: 100},
		},
		{
			name:      "zero rate",
			spec:      RunSpec{Rate: 0, Iterations: 10},
			wantPaths: []string{"rate"},
		},
		{
			name:      "NaN rate",
			spec:      RunSpec{Rate: math.NaN(), Iterations: 10},
			wantPaths: []string{"rate"},
		},
		{
			name:      "no run limit",
			spec:      RunSpec{Rate: 50},
			wantPaths: []string{"duration"},
		},
		{
			name:      "unparsable work",
			spec:      RunSpec{Rate: 50, Iterations: 10, Work: "fast"},
			wantPaths: []string{"work"},
		},
		{
			name:      "negative jitter",
			spec:      RunSpec{Rate: 50, Iterations: 10, Jitter: "-1ms"},
			wantPaths: []string{"jitter"},
		},
		{
			name:      "skipWork without skip",
			spec:      RunSpec{Rate: 50, Iterations: 10, SkipWork: "1ms"},
			wantPaths: []string{"skipWork"},
		},
		{
			name:      "multiple problems reported together",
			spec:      RunSpec{Rate: -1, Work: "fast"},
			wantPaths: []string{"rate", "duration", "work"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.spec)
			if len(errs) != len(tt.wantPaths) {
				t.Fatalf("Validate() returned %d errors (%v), want %d", len(errs), errs, len(tt.wantPaths))
			}
			for i, path := range tt.wantPaths {
				if errs[i].Path != path {
					t.Errorf("error %d path = %q, want %q", i, errs[i].Path, path)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Path: "rate", Message: "must be positive"}
	if !strings.Contains(err.Error(), "rate") || !strings.Contains(err.Error(), "must be positive") {
		t.Errorf("Error() = %q, want path and message", err.Error())
	}
}
