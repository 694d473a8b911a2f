package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/wesleyorama2/cadence/metrics"
)

func TestFormatter_PrintHeader(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, false)

	f.PrintHeader("steady-60hz", 60, 16666666*time.Nanosecond, true)

	out := buf.String()
	for _, want := range []string{"steady-60hz", "60/s", "skip valve"} {
		if !strings.Contains(out, want) {
			t.Errorf("header output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatter_PrintSummary(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, true)

	f.PrintSummary(100, metrics.Snapshot{
		Ticks:        500,
		Skips:        3,
		Elapsed:      5 * time.Second,
		AchievedRate: 99.6,
		TotalWait:    2 * time.Second,
		PeakDebt:     12 * time.Millisecond,
		WaitP50:      4 * time.Millisecond,
		WaitMax:      9 * time.Millisecond,
	})

	out := buf.String()
	for _, want := range []string{"SUMMARY", "500", "99.60/s", "skipped", "p50=4ms", "peak debt"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

// A non-file writer can never be a terminal, so output must carry no
// escape codes regardless of the noColor flag.
func TestFormatter_NoEscapeCodesForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, false)

	f.PrintSummary(10, metrics.Snapshot{Ticks: 1, AchievedRate: 10})

	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("output contains ANSI escapes for a non-terminal writer:\n%q", buf.String())
	}
}
