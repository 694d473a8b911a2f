package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/cadence/internal/config"
	"github.com/wesleyorama2/cadence/internal/output"
)

func TestSpecFrom_Flags(t *testing.T) {
	for flag, value := range map[string]string{
		"rate":       "25",
		"iterations": "10",
		"work":       "2ms",
		"skip":       "true",
		"seed":       "7",
	} {
		if err := runCmd.Flags().Set(flag, value); err != nil {
			t.Fatalf("setting --%s: %v", flag, err)
		}
	}
	t.Cleanup(func() {
		for flag, def := range map[string]string{
			"rate": "50", "iterations": "0", "work": "0s", "skip": "false", "seed": "0",
		} {
			_ = runCmd.Flags().Set(flag, def)
		}
	})

	spec, err := specFrom(runCmd)
	if err != nil {
		t.Fatalf("specFrom() error = %v", err)
	}

	if spec.Rate != 25 || spec.Iterations != 10 || !spec.Skip || spec.Seed != 7 {
		t.Errorf("specFrom() = %+v, flags not carried over", spec)
	}
	if spec.Work != "2ms" {
		t.Errorf("Work = %q, want 2ms", spec.Work)
	}
	if errs := config.Validate(spec); len(errs) != 0 {
		t.Errorf("flag-built spec failed validation: %v", errs)
	}
}

func TestDriveRun_IterationBound(t *testing.T) {
	var buf bytes.Buffer
	run := &config.Run{
		Name:       "test-run",
		Rate:       1000,
		Iterations: 10,
		Seed:       1,
	}

	err := driveRun(context.Background(), run, zerolog.Nop(), output.NewFormatter(&buf, true))
	if err != nil {
		t.Fatalf("driveRun() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"test-run", "SUMMARY", "iterations", "10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDriveRun_DurationBoundEndsCleanly(t *testing.T) {
	var buf bytes.Buffer
	run := &config.Run{
		Name:     "timed-run",
		Rate:     500,
		Duration: 50 * time.Millisecond,
		Seed:     1,
	}

	start := time.Now()
	err := driveRun(context.Background(), run, zerolog.Nop(), output.NewFormatter(&buf, true))
	if err != nil {
		t.Fatalf("driveRun() error = %v, deadline should end the run cleanly", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("run took %v, should stop shortly after its 50ms budget", elapsed)
	}
	if !strings.Contains(buf.String(), "SUMMARY") {
		t.Error("summary not printed after duration-bound run")
	}
}
