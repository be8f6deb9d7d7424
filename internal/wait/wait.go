// Package wait implements the bounded text-settlement poll.
//
// The site under test exposes no completion signal, so the only way to know
// its output reflects the latest input is to poll the rendered text until a
// predicate accepts it. Every poll has an explicit upper bound; a wait that
// exhausts its bound fails with a TimeoutError carrying the last-observed
// text rather than hanging.
package wait

import (
	"context"
	"fmt"
	"time"

	"github.com/pramodya/singlish-e2e/internal/errs"
)

// ReadFunc reads the current output text.
type ReadFunc func(ctx context.Context) (string, error)

// Predicate decides whether an observed text counts as settled.
type Predicate func(observed string) bool

// ChangedFrom accepts text that is non-empty and different from baseline.
//
// Both conditions are required: clearing the input can transiently blank the
// output, so non-empty alone may latch onto a stale leftover, and different
// alone never fires when the new output coincides with an earlier empty state.
func ChangedFrom(baseline string) Predicate {
	return func(observed string) bool {
		return observed != "" && observed != baseline
	}
}

// Exactly accepts only text byte-equal to want. Used when the final output is
// known, which is a stronger condition than "changed".
func Exactly(want string) Predicate {
	return func(observed string) bool {
		return observed == want
	}
}

// TimeoutError reports a settlement poll that exhausted its bound.
type TimeoutError struct {
	LastObserved string
	Elapsed      time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("output did not settle after %s (last observed %q)", e.Elapsed.Round(time.Millisecond), e.LastObserved)
}

// ForText polls read every interval until pred accepts the observed text or
// timeout elapses. It returns the settled text, or a settlement_timeout error
// wrapping a *TimeoutError. Read errors and context cancellation propagate
// immediately.
func ForText(ctx context.Context, read ReadFunc, pred Predicate, interval, timeout time.Duration) (string, error) {
	if interval <= 0 || timeout <= 0 {
		return "", errs.New(errs.InvalidArgument, "poll interval and timeout must be positive")
	}

	start := time.Now()
	deadline := start.Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last string
	for {
		observed, err := read(ctx)
		if err != nil {
			return "", err
		}
		if pred(observed) {
			return observed, nil
		}
		last = observed

		if time.Now().After(deadline) {
			elapsed := time.Since(start)
			return "", errs.Wrap(errs.SettlementTimeout,
				fmt.Sprintf("settlement poll timed out after %s", elapsed.Round(time.Millisecond)),
				&TimeoutError{LastObserved: last, Elapsed: elapsed})
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
