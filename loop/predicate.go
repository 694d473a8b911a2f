package loop

import "context"

// Predicate decides whether the loop runs another iteration.
//
// It is evaluated at the top of every pass with the 1-based index of
// the iteration about to run. Returning false stops the loop before
// that iteration does any work. Indices are strictly increasing and
// count skipped iterations too.
type Predicate func(iteration int64) bool

// Forever returns a predicate that never stops the loop. Pair it with
// RunContext or Start so cancellation can end the run.
func Forever() Predicate {
	return func(int64) bool { return true }
}

// MaxIterations returns a predicate that allows iterations 1 through n.
// Skipped iterations count against the budget.
func MaxIterations(n int64) Predicate {
	return func(iteration int64) bool { return iteration <= n }
}

// All combines predicates with AND: the loop continues only while every
// predicate returns true. Evaluation short-circuits in argument order.
func All(preds ...Predicate) Predicate {
	return func(iteration int64) bool {
		for _, p := range preds {
			if !p(iteration) {
				return false
			}
		}
		return true
	}
}

// WithContext composes "context not done" into p. The resulting
// predicate returns false once ctx is cancelled, so the loop stops at
// the next iteration boundary; an in-flight payload or wait is never
// interrupted.
func WithContext(ctx context.Context, p Predicate) Predicate {
	return func(iteration int64) bool {
		if ctx.Err() != nil {
			return false
		}
		return p(iteration)
	}
}
