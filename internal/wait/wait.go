// Package wait polls conditions against state that changes outside of our control
// (a remote web page) until they hold or a deadline passes.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultInterval is the delay between two evaluations of a condition.
const DefaultInterval = 500 * time.Millisecond

var ErrTimeout = errors.New("timed out")

// TimeoutError is returned by Until when the condition never held in time.
type TimeoutError struct {
	// Message names the condition that was being waited for.
	Message string
	Timeout time.Duration
	// LastErr is the last ignored error returned by the condition, if any.
	LastErr error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s", e.Timeout)
	if e.Message != "" {
		msg = fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Message)
	}
	if e.LastErr != nil {
		msg = fmt.Sprintf("%s (last error: %s)", msg, e.LastErr)
	}
	return msg
}

func (e *TimeoutError) Unwrap() []error {
	if e.LastErr == nil {
		return []error{ErrTimeout}
	}
	return []error{ErrTimeout, e.LastErr}
}

// Condition is evaluated until it reports done. Returning an error that is not
// ignored aborts the wait.
type Condition[T any] func(ctx context.Context) (value T, done bool, err error)

type Options struct {
	Timeout time.Duration
	// Interval defaults to DefaultInterval.
	Interval time.Duration
	// Ignored errors (matched with errors.Is) mean "not ready yet".
	Ignored []error
	Message string
}

func (o Options) ignores(err error) bool {
	for _, target := range o.Ignored {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Until evaluates cond right away and then every Interval until it reports done,
// returning the value it produced.
func Until[T any](ctx context.Context, opts Options, cond Condition[T]) (T, error) {
	var zero T
	if opts.Timeout <= 0 {
		return zero, fmt.Errorf("wait: timeout must be positive, got %s", opts.Timeout)
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	deadline := time.Now().Add(opts.Timeout)
	// cond sees the deadline too, so a call blocked on the page cannot outlive the wait.
	condCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	timedOut := func() *TimeoutError {
		return &TimeoutError{
			Message: opts.Message,
			Timeout: opts.Timeout,
			LastErr: lastErr,
		}
	}
	for {
		value, done, err := cond(condCtx)
		switch {
		case err != nil && ctx.Err() == nil && condCtx.Err() != nil:
			return zero, timedOut()
		case err != nil && !opts.ignores(err):
			return zero, err
		case err != nil:
			lastErr = err
		case done:
			return value, nil
		}

		if !time.Now().Before(deadline) {
			return zero, timedOut()
		}

		select {
		case <-condCtx.Done():
			if ctx.Err() != nil {
				return zero, ctx.Err()
			}
			return zero, timedOut()
		case <-ticker.C:
		}
	}
}

// For is Until for conditions that only succeed or fail.
func For(ctx context.Context, opts Options, cond func(ctx context.Context) (bool, error)) error {
	_, err := Until(ctx, opts, func(ctx context.Context) (struct{}, bool, error) {
		done, err := cond(ctx)
		return struct{}{}, done, err
	})
	return err
}

// Succeeds waits until fn returns without an ignored error and passes its value through.
// This is the shape of most element lookups: "not found" is retried, anything
// else is fatal.
func Succeeds[T any](ctx context.Context, opts Options, fn func(ctx context.Context) (T, error)) (T, error) {
	return Until(ctx, opts, func(ctx context.Context) (T, bool, error) {
		value, err := fn(ctx)
		if err != nil {
			var zero T
			return zero, false, err
		}
		return value, true, nil
	})
}
