package loop

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Loop drives a payload at a fixed target rate with debt accounting.
//
// A Loop is created with New and started with Run, RunContext, or
// Start. All per-run state (start time, debt, iteration counter) is
// local to one run: a Loop may be run again after a run finishes, and
// distinct Loops are fully independent. The aggregate counters behind
// Stats use atomic operations and may be read while a run is in
// progress.
type Loop struct {
	cfg      Config
	interval time.Duration
	clock    Clock

	// Aggregate counters, readable concurrently via Stats.
	ticks     atomic.Int64
	skips     atomic.Int64
	waitNanos atomic.Int64
	debtNanos atomic.Int64
	peakDebt  atomic.Int64
}

// Stats is a snapshot of a loop's aggregate counters.
type Stats struct {
	// Ticks is the number of measured iterations (payload runs).
	Ticks int64

	// Skips is the number of iterations shed through the skip action.
	Skips int64

	// TotalWait is the cumulative time spent in end-of-tick waits.
	TotalWait time.Duration

	// Debt is the lateness pending at the last measurement.
	Debt time.Duration

	// PeakDebt is the largest lateness observed.
	PeakDebt time.Duration
}

// New validates cfg and returns a Loop ready to run.
func New(cfg Config) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid loop config: %w", err)
	}

	interval := cfg.interval()
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %v per second is too fast to schedule", ErrInvalidRate, cfg.Rate)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	return &Loop{
		cfg:      cfg,
		interval: interval,
		clock:    clock,
	}, nil
}

// Interval returns the ideal duration of one iteration, derived once
// from the configured rate.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Stats returns a snapshot of the loop's aggregate counters. Counters
// accumulate across runs of the same Loop.
func (l *Loop) Stats() Stats {
	return Stats{
		Ticks:     l.ticks.Load(),
		Skips:     l.skips.Load(),
		TotalWait: time.Duration(l.waitNanos.Load()),
		Debt:      time.Duration(l.debtNanos.Load()),
		PeakDebt:  time.Duration(l.peakDebt.Load()),
	}
}

// Run executes the loop on the calling goroutine until the
// continuation predicate returns false or a callback fails. The
// calling goroutine is occupied for the entire run, including waits.
func (l *Loop) Run() error {
	return l.run(l.predicate())
}

// RunContext executes the loop like Run, with "context not done"
// composed into the continuation predicate. The loop stops at the
// first iteration boundary after ctx is cancelled, never mid-payload
// or mid-wait, so at most one iteration runs after
// cancellation. If the run ended because of the context, RunContext
// returns ctx's error.
func (l *Loop) RunContext(ctx context.Context) error {
	pred := l.predicate()
	cancelled := false

	err := l.run(func(iteration int64) bool {
		if ctx.Err() != nil {
			cancelled = true
			return false
		}
		return pred(iteration)
	})
	if err != nil {
		return err
	}
	if cancelled {
		return ctx.Err()
	}
	return nil
}

func (l *Loop) predicate() Predicate {
	if l.cfg.ContinueWhile != nil {
		return l.cfg.ContinueWhile
	}
	return Forever()
}

// run is the single loop core shared by every entry point. The
// blocking and cooperative modes differ only in which goroutine run is
// called on; the wait primitive (Clock.Sleep) parks just that
// goroutine either way.
func (l *Loop) run(continueWhile Predicate) error {
	start := l.clock.Now()
	var debt time.Duration

	for iteration := int64(1); continueWhile(iteration); iteration++ {
		if l.cfg.OnPreTick != nil {
			if err := l.cfg.OnPreTick(); err != nil {
				return err
			}
		}

		// Skip branch: shed one whole interval of debt with the
		// cheap substitute action. No measurement, no wait.
		if debt > l.interval && l.cfg.OnSkip != nil {
			debt -= l.interval
			l.debtNanos.Store(int64(debt))
			if err := l.cfg.OnSkip(); err != nil {
				return err
			}
			l.skips.Add(1)
			if l.cfg.Observer != nil {
				l.cfg.Observer.ObserveSkip(iteration, debt)
			}
			continue
		}

		if err := l.cfg.OnTick(debt); err != nil {
			return err
		}
		l.ticks.Add(1)

		// Measure against the absolute schedule origin, not the
		// previous iteration, so rounding error cannot compound.
		// The schedule position is the end of the previous slot;
		// this iteration's own slot is the budget below.
		elapsed := l.clock.Now().Sub(start)
		behind := elapsed - time.Duration(iteration-1)*l.interval + debt
		debt = 0

		var waited time.Duration
		if wait := l.interval - behind; wait > 0 {
			l.clock.Sleep(wait)
			l.waitNanos.Add(int64(wait))
			waited = wait
		} else {
			debt = -wait
		}

		l.debtNanos.Store(int64(debt))
		if p := l.peakDebt.Load(); int64(debt) > p {
			l.peakDebt.Store(int64(debt))
		}
		if l.cfg.Observer != nil {
			l.cfg.Observer.ObserveTick(iteration, behind, waited, debt)
		}
	}

	return nil
}
