// Package gate bounds concurrent access to non-reentrant collaborators.
//
// OCR engines and embedding models are expensive and not safely reentrant in
// the general case. A Gate is a counting semaphore plus a per-call timeout:
// at most Size calls run at once, callers queue (honoring their context)
// when the gate is full, and no call outlives its budget. A gate of size 1
// degenerates to mutual exclusion.
package gate

import (
	"context"
	"fmt"
	"time"
)

// Gate admits at most a fixed number of concurrent calls and applies a
// timeout to each admitted call.
type Gate struct {
	slots   chan struct{}
	timeout time.Duration
}

// New creates a gate admitting size concurrent calls with the given per-call
// timeout. Size must be >= 1 and timeout > 0.
func New(size int, timeout time.Duration) *Gate {
	if size < 1 {
		size = 1
	}
	return &Gate{
		slots:   make(chan struct{}, size),
		timeout: timeout,
	}
}

// Do runs fn under the gate. It blocks until a slot is free or ctx is done,
// then runs fn with a deadline of the gate's timeout. If the deadline expires
// the call returns context.DeadlineExceeded; fn keeps running in the
// background until it finishes on its own. That stragglers may still complete
// (and, for cache fills, still store their result) is tolerated: the work is
// wasted but harmless.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case g.slots <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("waiting for collaborator slot: %w", ctx.Err())
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)

	done := make(chan error, 1)
	go func() {
		defer func() { <-g.slots }()
		defer cancel()
		done <- fn(callCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-callCtx.Done():
		return callCtx.Err()
	}
}

// Size returns the number of concurrent calls the gate admits.
func (g *Gate) Size() int { return cap(g.slots) }

// Timeout returns the per-call budget.
func (g *Gate) Timeout() time.Duration { return g.timeout }
