package scraper

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// SleepFunc blocks for the given duration or until ctx is cancelled.
// Injected so tests run without real-time waiting.
type SleepFunc func(ctx context.Context, d time.Duration)

func realSleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// BackoffFunc returns the sleep duration before the next attempt.
type BackoffFunc func(attempt int) time.Duration

// jitterBackoff returns a uniformly random duration in [min, max],
// independent of the attempt number. The randomness spreads retries out
// so repeated failures don't hammer the upstream on a fixed cadence.
func jitterBackoff(min, max time.Duration) BackoffFunc {
	return func(int) time.Duration {
		if max <= min {
			return min
		}
		return min + rand.N(max-min)
	}
}

// retrier runs an operation up to `attempts` times, sleeping between
// failures. It never inspects the failure kind: every error is retryable
// and only the last one is returned.
type retrier struct {
	attempts int
	backoff  BackoffFunc
	sleep    SleepFunc
}

func newRetrier(attempts int, backoff BackoffFunc) *retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &retrier{attempts: attempts, backoff: backoff, sleep: realSleep}
}

// do runs op until it succeeds or the attempt bound is reached, and
// reports how many attempts were made. Success short-circuits the
// remaining attempts; intermediate failures are logged, not returned.
func (r *retrier) do(ctx context.Context, op func(context.Context) error) (int, error) {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err = op(ctx); err == nil {
			return attempt, nil
		}

		if attempt == r.attempts {
			return attempt, err
		}

		delay := r.backoff(attempt)
		slog.Warn("attempt failed, backing off",
			"attempt", attempt,
			"max_attempts", r.attempts,
			"delay", delay,
			"error", err,
		)
		r.sleep(ctx, delay)
	}
	return r.attempts, err
}
