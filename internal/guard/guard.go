// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package guard runs regex-heavy steps under a hard wall-clock deadline.
// A step that overruns its budget is abandoned, not killed: the worker
// goroutine sends into a buffered channel and exits on its own, converting
// unbounded-regex-blowup risk into a bounded-latency contract.
// Implements: prd003-authorities R5 (timeout discipline).
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when a guarded step exceeds its wall-clock budget.
// Callers treat it as step-scoped: they keep partial results from prior
// steps and continue.
var ErrTimeout = errors.New("step timed out")

// Run executes fn with a wall-clock deadline. On timeout or context
// cancellation it returns the zero value and an error wrapping ErrTimeout
// (or ctx.Err()); the worker goroutine finishes in the background and its
// result is discarded. When timeout is zero or negative, fn runs inline
// with no guard.
func Run[T any](ctx context.Context, timeout time.Duration, name string, fn func() T) (T, error) {
	if timeout <= 0 {
		return fn(), nil
	}

	// Buffered so the abandoned worker never blocks on send.
	done := make(chan T, 1)
	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T
	select {
	case v := <-done:
		return v, nil
	case <-ctx.Done():
		return zero, fmt.Errorf("%s: %w", name, ctx.Err())
	case <-timer.C:
		return zero, fmt.Errorf("%s after %v: %w", name, timeout, ErrTimeout)
	}
}
