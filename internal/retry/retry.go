// Package retry implements the generic retry engine: bounded exponential
// backoff with jitter around a transient/permanent error classification,
// plus an outer overall-deadline timeout.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gtrak/mcp-cli/internal/config"
	"github.com/gtrak/mcp-cli/internal/mcperr"

	"github.com/cenkalti/backoff/v5"
)

// Do runs op, retrying on transient errors per cfg's schedule and an
// overall deadline of overallTimeout. An operation can force a stop
// without exhausting the retry budget by wrapping its error with
// backoff.Permanent — Do honors that sentinel the same way the
// mcperr-based classification does.
func Do[T any](ctx context.Context, cfg config.RetryConfig, overallTimeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	deadline := time.Now().Add(overallTimeout)

	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		var permErr *backoff.PermanentError
		if errors.As(err, &permErr) {
			return zero, permErr.Unwrap()
		}

		if me, ok := mcperr.As(err); ok && !me.Retryable() {
			return zero, err
		}

		if time.Now().After(deadline) {
			return zero, mcperr.OperationCancelled(overallTimeout.Seconds())
		}
		if attempt >= cfg.MaxAttempts {
			return zero, mcperr.MaxRetriesExceeded(attempt, err)
		}

		delay := backoffDelay(attempt, cfg.BaseDelay, cfg.MaxDelay)
		if remaining := time.Until(deadline); delay > remaining {
			delay = remaining
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, mcperr.OperationCancelled(overallTimeout.Seconds())
		}

		if time.Now().After(deadline) {
			return zero, mcperr.OperationCancelled(overallTimeout.Seconds())
		}
	}
}

// backoffDelay computes delay(attempt=1) = base, delay(attempt=k>=2) =
// min(base*2^(k-1), max), plus a flat +delay/10 jitter.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	var d time.Duration
	if attempt <= 1 {
		d = base
	} else {
		scaled := float64(base) * math.Pow(2, float64(attempt-1))
		d = time.Duration(scaled)
		if d > max {
			d = max
		}
	}
	return d + d/10
}
