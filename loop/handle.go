package loop

import (
	"context"

	"github.com/google/uuid"
)

// Handle represents a loop run started cooperatively with Start.
//
// The zero value is not useful; handles are only created by Start.
type Handle struct {
	id     uuid.UUID
	cancel context.CancelFunc
	done   chan struct{}

	// err is written once by the run goroutine before done is
	// closed; reads are ordered by the close.
	err error
}

// Start launches the loop on its own goroutine and returns immediately
// with a Handle for the in-progress run.
//
// Semantics are identical to RunContext: the handle's context controls
// cancellation, composed into the continuation predicate, and the run
// stops only at iteration boundaries. Callbacks may themselves block;
// the loop simply resumes when they return. Waits park only the loop's
// goroutine, so other work keeps running while the loop sleeps.
func (l *Loop) Start(ctx context.Context) *Handle {
	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		id:     uuid.New(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()
		h.err = l.RunContext(runCtx)
	}()

	return h
}

// ID returns the unique identifier of this run.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Done returns a channel that is closed when the run has fully
// stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Stop requests the run to stop at the next iteration boundary. It
// does not wait; use Wait or Done to observe completion. A run ended
// by Stop reports context.Canceled.
func (h *Handle) Stop() {
	h.cancel()
}

// Err returns the run's result if it has finished, or nil while it is
// still in progress.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the run has stopped and returns its result: nil
// for a predicate-terminated run, the context's error for a cancelled
// one, or the callback error that ended it.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}
