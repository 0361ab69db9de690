// Package enrich provides optional enrichment sources for analyses.
// A source is a caller-supplied callable (weather, historical averages,
// routing hints) whose failure degrades only its own field, never the
// analysis that requested it.
package enrich

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Source produces one enrichment value for an input. Sources must honor ctx;
// callers bound slow sources with WithTimeout.
type Source[T any] func(ctx context.Context, input T) (any, error)

// WithTimeout bounds each source call with its own deadline.
func WithTimeout[T any](src Source[T], d time.Duration) Source[T] {
	return func(ctx context.Context, input T) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type result struct {
			value any
			err   error
		}
		done := make(chan result, 1)
		go func() {
			v, err := src(ctx, input)
			done <- result{v, err}
		}()

		select {
		case r := <-done:
			return r.value, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// WithRateLimit blocks until the limiter permits the call, or the context
// expires.
func WithRateLimit[T any](src Source[T], limiter *rate.Limiter) Source[T] {
	return func(ctx context.Context, input T) (any, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return src(ctx, input)
	}
}

// WithRetry retries a failing source up to attempts times with a fixed
// backoff between tries. The last error is returned if all attempts fail.
func WithRetry[T any](src Source[T], attempts int, backoff time.Duration) Source[T] {
	if attempts < 1 {
		attempts = 1
	}
	return func(ctx context.Context, input T) (any, error) {
		var lastErr error
		for i := 0; i < attempts; i++ {
			if i > 0 {
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			v, err := src(ctx, input)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		return nil, lastErr
	}
}
