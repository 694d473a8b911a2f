package loop

import "time"

// Clock is the time source and wait primitive the loop runs against.
//
// Every scheduling decision is derived from Now readings measured
// against a single start instant, and every end-of-tick wait goes
// through Sleep. Injecting a Clock makes the debt math fully
// deterministic under test; production code uses SystemClock.
type Clock interface {
	// Now returns the current time. Only differences between Now
	// readings are used, so any origin with monotonic progression
	// works.
	Now() time.Time

	// Sleep parks the calling goroutine for at least d. The loop
	// only calls Sleep with d > 0.
	Sleep(d time.Duration)
}

// SystemClock is the default Clock, backed by the time package.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep calls time.Sleep(d).
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
