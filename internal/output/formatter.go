// Package output renders run summaries for the cadence CLI.
package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/wesleyorama2/cadence/metrics"
)

// Formatter writes human-readable run headers and summaries.
type Formatter struct {
	w      io.Writer
	scheme *ColorScheme
}

// NewFormatter creates a formatter writing to w. Color is used only
// when noColor is false and w is a terminal.
func NewFormatter(w io.Writer, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	f, isFile := w.(*os.File)
	if noColor || !isFile || !isTerminal(f) {
		scheme = NoColorScheme()
	}
	return &Formatter{w: w, scheme: scheme}
}

// PrintHeader writes the run banner before the loop starts.
func (f *Formatter) PrintHeader(name string, rate float64, interval time.Duration, skip bool) {
	fmt.Fprintf(f.w, "%s %s\n", f.scheme.Header.Sprint("▶ RUN:"), f.scheme.Highlight.Sprint(name))
	fmt.Fprintf(f.w, "  %s %s/s (interval %s)\n",
		f.scheme.Label.Sprint("target rate:"),
		f.scheme.Value.Sprintf("%g", rate),
		f.scheme.Value.Sprint(interval))
	if skip {
		fmt.Fprintf(f.w, "  %s enabled\n", f.scheme.Label.Sprint("skip valve:"))
	}
}

// PrintSummary writes the end-of-run statistics. The achieved rate is
// highlighted green when it lands within 5% of the target, yellow
// within 20%, red beyond that.
func (f *Formatter) PrintSummary(targetRate float64, snap metrics.Snapshot) {
	fmt.Fprintf(f.w, "\n%s\n", f.scheme.Header.Sprint("■ SUMMARY"))

	rateColor := f.scheme.Good
	switch deviation := math.Abs(snap.AchievedRate-targetRate) / targetRate; {
	case deviation > 0.20:
		rateColor = f.scheme.Bad
	case deviation > 0.05:
		rateColor = f.scheme.Warn
	}

	f.line("elapsed", f.scheme.Value.Sprint(snap.Elapsed.Round(time.Millisecond)))
	f.line("iterations", f.scheme.Value.Sprintf("%d", snap.Ticks))
	f.line("achieved rate", rateColor.Sprintf("%.2f/s", snap.AchievedRate))

	skipColor := f.scheme.Value
	if snap.Skips > 0 {
		skipColor = f.scheme.Warn
	}
	f.line("skipped", skipColor.Sprintf("%d", snap.Skips))
	f.line("total wait", f.scheme.Value.Sprint(snap.TotalWait.Round(time.Millisecond)))
	f.line("peak debt", f.scheme.Value.Sprint(snap.PeakDebt.Round(time.Microsecond)))

	fmt.Fprintf(f.w, "  %s\n", f.scheme.Label.Sprint("wait time:"))
	f.distribution(snap.WaitP50, snap.WaitP90, snap.WaitP99, snap.WaitMax, snap.WaitMean)
	fmt.Fprintf(f.w, "  %s\n", f.scheme.Label.Sprint("lateness:"))
	f.distribution(snap.LatenessP50, snap.LatenessP90, snap.LatenessP99, snap.LatenessMax, snap.LatenessMean)
}

func (f *Formatter) line(label, value string) {
	fmt.Fprintf(f.w, "  %s %s\n", f.scheme.Label.Sprintf("%-14s", label+":"), value)
}

func (f *Formatter) distribution(p50, p90, p99, max, mean time.Duration) {
	fmt.Fprintf(f.w, "    p50=%s p90=%s p99=%s max=%s mean=%s\n",
		f.scheme.Value.Sprint(p50),
		f.scheme.Value.Sprint(p90),
		f.scheme.Value.Sprint(p99),
		f.scheme.Value.Sprint(max),
		f.scheme.Value.Sprint(mean))
}
