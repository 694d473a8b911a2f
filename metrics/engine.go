// Package metrics collects scheduling statistics for rate-driven loops.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Engine aggregates per-iteration telemetry from a rate-driven loop
// using HDR histograms.
//
// Engine satisfies the loop package's Observer interface: wire it in
// through Config.Observer and read a Snapshot when the run finishes
// (or at any point during it).
//
// Key features:
//   - HDR histograms for wait-time and lateness percentiles
//   - Lock-free counter updates on the hot path
//   - Achieved-rate calculation against wall-clock elapsed time
//
// # Thread Safety
//
// Engine is safe for concurrent use. Counters are atomic and the
// histograms are mutex protected, so a monitoring goroutine may call
// Snapshot while the loop is running.
type Engine struct {
	// Histograms record in microseconds.
	histMu       sync.Mutex
	waitHist     *hdrhistogram.Histogram
	latenessHist *hdrhistogram.Histogram

	ticks     atomic.Int64
	skips     atomic.Int64
	waitNanos atomic.Int64
	peakDebt  atomic.Int64

	startMu   sync.Mutex
	startTime time.Time

	config EngineConfig
}

// EngineConfig contains configuration for the metrics engine.
type EngineConfig struct {
	// HistogramMin is the minimum recordable value in microseconds (default: 1)
	HistogramMin int64

	// HistogramMax is the maximum recordable value in microseconds (default: 3600000000 = 1 hour)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int
}

// DefaultEngineConfig returns the default configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HistogramMin:     1,
		HistogramMax:     3600000000, // 1 hour in microseconds
		HistogramSigFigs: 3,
	}
}

// NewEngine creates a metrics engine with the given configuration.
// Zero-valued config fields fall back to the defaults.
func NewEngine(config EngineConfig) *Engine {
	defaults := DefaultEngineConfig()
	if config.HistogramMin <= 0 {
		config.HistogramMin = defaults.HistogramMin
	}
	if config.HistogramMax <= 0 {
		config.HistogramMax = defaults.HistogramMax
	}
	if config.HistogramSigFigs <= 0 {
		config.HistogramSigFigs = defaults.HistogramSigFigs
	}

	return &Engine{
		waitHist:     hdrhistogram.New(config.HistogramMin, config.HistogramMax, config.HistogramSigFigs),
		latenessHist: hdrhistogram.New(config.HistogramMin, config.HistogramMax, config.HistogramSigFigs),
		startTime:    time.Now(),
		config:       config,
	}
}

// ObserveTick records one measured iteration. behind below zero (the
// loop ran ahead of schedule) is recorded as zero lateness.
func (e *Engine) ObserveTick(iteration int64, behind, wait, debt time.Duration) {
	e.ticks.Add(1)
	e.waitNanos.Add(int64(wait))
	e.updatePeakDebt(debt)

	lateness := behind
	if lateness < 0 {
		lateness = 0
	}

	e.histMu.Lock()
	_ = e.waitHist.RecordValue(wait.Microseconds())
	_ = e.latenessHist.RecordValue(lateness.Microseconds())
	e.histMu.Unlock()
}

// ObserveSkip records one iteration shed through the skip action.
func (e *Engine) ObserveSkip(iteration int64, debt time.Duration) {
	e.skips.Add(1)
	e.updatePeakDebt(debt)
}

func (e *Engine) updatePeakDebt(debt time.Duration) {
	for {
		peak := e.peakDebt.Load()
		if int64(debt) <= peak {
			return
		}
		if e.peakDebt.CompareAndSwap(peak, int64(debt)) {
			return
		}
	}
}

// Reset clears all recorded data and restarts the elapsed-time origin.
// Useful when reusing an engine for a new run.
func (e *Engine) Reset() {
	e.histMu.Lock()
	e.waitHist.Reset()
	e.latenessHist.Reset()
	e.histMu.Unlock()

	e.ticks.Store(0)
	e.skips.Store(0)
	e.waitNanos.Store(0)
	e.peakDebt.Store(0)

	e.startMu.Lock()
	e.startTime = time.Now()
	e.startMu.Unlock()
}

// Snapshot contains aggregated statistics at a point in time.
type Snapshot struct {
	Ticks        int64         `json:"ticks"`        // Measured iterations
	Skips        int64         `json:"skips"`        // Iterations shed via skip
	Elapsed      time.Duration `json:"elapsed"`      // Wall-clock time since engine start
	AchievedRate float64       `json:"achievedRate"` // Ticks per second of elapsed time
	TotalWait    time.Duration `json:"totalWait"`    // Cumulative end-of-tick wait
	PeakDebt     time.Duration `json:"peakDebt"`     // Largest lateness carried forward

	// Wait-time distribution
	WaitP50  time.Duration `json:"waitP50"`
	WaitP90  time.Duration `json:"waitP90"`
	WaitP99  time.Duration `json:"waitP99"`
	WaitMax  time.Duration `json:"waitMax"`
	WaitMean time.Duration `json:"waitMean"`

	// Lateness (behind-schedule) distribution
	LatenessP50  time.Duration `json:"latenessP50"`
	LatenessP90  time.Duration `json:"latenessP90"`
	LatenessP99  time.Duration `json:"latenessP99"`
	LatenessMax  time.Duration `json:"latenessMax"`
	LatenessMean time.Duration `json:"latenessMean"`
}

// Snapshot returns the current aggregated statistics.
func (e *Engine) Snapshot() Snapshot {
	e.startMu.Lock()
	elapsed := time.Since(e.startTime)
	e.startMu.Unlock()

	ticks := e.ticks.Load()

	var achieved float64
	if elapsed > 0 {
		achieved = float64(ticks) / elapsed.Seconds()
	}

	e.histMu.Lock()
	defer e.histMu.Unlock()

	return Snapshot{
		Ticks:        ticks,
		Skips:        e.skips.Load(),
		Elapsed:      elapsed,
		AchievedRate: achieved,
		TotalWait:    time.Duration(e.waitNanos.Load()),
		PeakDebt:     time.Duration(e.peakDebt.Load()),

		WaitP50:  micros(e.waitHist.ValueAtQuantile(50)),
		WaitP90:  micros(e.waitHist.ValueAtQuantile(90)),
		WaitP99:  micros(e.waitHist.ValueAtQuantile(99)),
		WaitMax:  micros(e.waitHist.Max()),
		WaitMean: time.Duration(e.waitHist.Mean() * float64(time.Microsecond)),

		LatenessP50:  micros(e.latenessHist.ValueAtQuantile(50)),
		LatenessP90:  micros(e.latenessHist.ValueAtQuantile(90)),
		LatenessP99:  micros(e.latenessHist.ValueAtQuantile(99)),
		LatenessMax:  micros(e.latenessHist.Max()),
		LatenessMean: time.Duration(e.latenessHist.Mean() * float64(time.Microsecond)),
	}
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
