package loop

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// TickFunc is the timed payload, run once per non-skipped iteration.
//
// debt is the lateness carried into this iteration: time the loop owes
// the schedule that has not yet been repaid. A payload may use it to
// adapt, for example by scaling a simulation step.
type TickFunc func(debt time.Duration) error

// SkipFunc is the optional substitute action run instead of the payload
// when accumulated debt exceeds one full interval. Each invocation
// forgives exactly one interval of debt.
type SkipFunc func() error

// PreTickFunc is the optional action run unconditionally at the start
// of every iteration, before the skip decision.
type PreTickFunc func() error

// Observer receives per-iteration telemetry from a running loop.
//
// Implementations must be cheap: both methods are called inline on the
// loop goroutine and extend the iteration they describe. The metrics
// package provides an HDR-histogram backed implementation.
type Observer interface {
	// ObserveTick is called after a measured iteration completes.
	// behind is how far past the ideal schedule position the loop
	// was when measured (negative means ahead), wait is the time
	// actually slept (zero when the slot was blown), and debt is
	// the lateness carried into the next iteration.
	ObserveTick(iteration int64, behind, wait, debt time.Duration)

	// ObserveSkip is called when an iteration runs the skip action
	// instead of the payload. debt is the lateness remaining after
	// one interval was forgiven.
	ObserveSkip(iteration int64, debt time.Duration)
}

// Validation errors returned by New.
var (
	// ErrInvalidRate indicates a rate that is zero, negative, or not
	// a finite number.
	ErrInvalidRate = errors.New("rate must be a positive, finite number")

	// ErrNoTick indicates a Config without a payload.
	ErrNoTick = errors.New("OnTick is required")
)

// Config describes one rate-driven loop.
//
// Rate and OnTick are required; everything else is optional capability
// configuration. The zero value of each optional field disables the
// corresponding behavior.
type Config struct {
	// Rate is the target payload invocation frequency in iterations
	// per second. Must be positive and finite.
	Rate float64

	// OnTick is the timed payload. Required.
	OnTick TickFunc

	// ContinueWhile is the continuation predicate, evaluated before
	// each iteration with its 1-based index. Nil means run forever
	// (until cancelled or a callback fails).
	ContinueWhile Predicate

	// OnSkip, when set, enables the skip escape valve: once debt
	// exceeds one interval the loop runs OnSkip instead of OnTick
	// and forgives one interval of debt. When nil the skip branch
	// is structurally disabled and debt is only repaid by shrinking
	// future waits.
	OnSkip SkipFunc

	// OnPreTick, when set, runs at the top of every iteration,
	// before the skip decision.
	OnPreTick PreTickFunc

	// Clock overrides the time source and wait primitive. Nil means
	// SystemClock.
	Clock Clock

	// Observer, when set, receives per-iteration telemetry.
	Observer Observer
}

// Validate checks that the configuration describes a runnable loop.
func (c *Config) Validate() error {
	var errs []error

	if c.Rate <= 0 || math.IsNaN(c.Rate) || math.IsInf(c.Rate, 0) {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidRate, c.Rate))
	}
	if c.OnTick == nil {
		errs = append(errs, ErrNoTick)
	}

	return errors.Join(errs...)
}

// interval derives the ideal per-iteration duration from the rate.
func (c *Config) interval() time.Duration {
	return time.Duration(float64(time.Second) / c.Rate)
}
