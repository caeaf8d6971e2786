// Package retry provides a reusable bounded exponential-backoff-with-jitter
// wrapper for fallible operations. Which errors trigger a retry is decided by
// a caller-supplied predicate, so the same policy works for any operation.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ErrExhausted is returned, wrapping the last error, when the retry budget is
// spent on retryable failures.
var ErrExhausted = errors.New("retry attempts exhausted")

// DefaultMaxRetries is the number of retries applied when a policy does not
// specify one, for up to four total attempts.
const DefaultMaxRetries = 3

// Policy configures the backoff loop.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// Negative values are treated as DefaultMaxRetries.
	MaxRetries int

	// Retryable decides whether an error is worth retrying. A nil predicate
	// retries nothing, making Do a plain single invocation.
	Retryable func(error) bool

	// BaseDelay is the unit for the 2^attempt backoff term. Defaults to one
	// second, matching a delay of 2^attempt + uniform(0,1) seconds.
	BaseDelay time.Duration

	// Sleep waits for the given duration or until the context is done.
	// Overridable so tests can observe delays without real sleeping.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns a Policy with the standard bounds and the given
// retry predicate.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		Retryable:  retryable,
		BaseDelay:  time.Second,
	}
}

// sleepContext blocks for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do invokes op, retrying on errors accepted by the policy's predicate with a
// delay of BaseDelay*2^attempt plus uniform jitter in [0, BaseDelay). The
// attempt counter starts at zero. Non-retryable errors are returned
// immediately. Once MaxRetries is exhausted the last error is returned
// wrapped in ErrExhausted, without a further sleep.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T

	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}

	baseDelay := p.BaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		if p.Retryable == nil || !p.Retryable(err) {
			return zero, err
		}

		if attempt >= maxRetries {
			return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt+1, err)
		}

		backoff := time.Duration(math.Pow(2, float64(attempt)) * float64(baseDelay))
		jitter := time.Duration(rng.Float64() * float64(baseDelay))

		if err := sleep(ctx, backoff+jitter); err != nil {
			return zero, err
		}
	}
}
