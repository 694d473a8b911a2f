// Package loop provides a fixed-rate loop driver with debt accounting.
//
// The driver repeatedly invokes a caller-supplied payload at a target
// frequency. Every iteration it measures actual wall-clock progress
// against the ideal schedule and carries the timing error ("debt")
// forward, so the long-run average rate converges to the target even
// when individual iterations overrun their slot.
//
// # Debt Accounting
//
// Each iteration the loop compares total elapsed time since the run
// started against the ideal schedule position. The difference, plus any
// debt still pending, is the amount the loop is behind. Whatever budget
// remains in the current slot is spent waiting; if the slot is already
// blown, the overrun becomes debt and future waits shrink until it is
// repaid. Because the comparison is always against the absolute start
// of the run, rounding error does not compound over long runs.
//
// When debt exceeds a full interval and a skip action is configured,
// the loop runs the cheap skip action instead of the payload and
// forgives exactly one interval of debt. This is the escape valve for
// catastrophic lateness: shed work explicitly rather than silently
// drift the average rate.
//
// # Basic Usage
//
//	l, err := loop.New(loop.Config{
//	    Rate: 60.0, // 60 iterations per second
//	    OnTick: func(debt time.Duration) error {
//	        step(debt) // payload may adapt to how late it is
//	        return nil
//	    },
//	    ContinueWhile: loop.MaxIterations(600),
//	})
//	if err != nil {
//	    return err
//	}
//	if err := l.Run(); err != nil {
//	    return err
//	}
//
// # Execution Modes
//
// Run occupies the calling goroutine for the whole run. Start launches
// the same loop on its own goroutine and returns a Handle for awaiting
// or stopping it. Both modes share one loop core; only the goroutine
// the core runs on differs. End-of-tick waits park the goroutine, not
// an OS thread, so a started loop never starves other work while it
// sleeps.
//
// # Cancellation
//
// Cancellation is predicate composition, not a separate code path:
// RunContext and Start fold "context not done" into the continuation
// predicate. The loop therefore stops only at iteration boundaries:
// an in-flight payload or wait is never interrupted, and at most one
// further iteration runs after the context is cancelled.
//
// # Errors
//
// The loop introduces no error handling of its own. An error returned
// by any callback terminates the run immediately and propagates to the
// caller unmodified.
package loop
