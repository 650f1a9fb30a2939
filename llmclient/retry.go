package llmclient

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy configures exponential backoff for transient provider
// failures.
type RetryPolicy struct {
	MaxRetries        int     // retry attempts after the initial call
	BaseDelay         float64 // first delay in seconds
	MaxDelay          float64 // cap on any single delay
	BackoffMultiplier float64
	Jitter            bool
	OnRetry           func(err error, attempt int, delay time.Duration)
}

// DefaultRetryPolicy returns the default policy: two retries, one second
// base, doubling with jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        2,
		BaseDelay:         1.0,
		MaxDelay:          60.0,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// Delay returns the backoff delay for attempt n (0-indexed). With Jitter
// the delay is scaled by a random factor in [0.5, 1.5).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	seconds := math.Min(p.BaseDelay*math.Pow(p.BackoffMultiplier, float64(attempt)), p.MaxDelay)
	if p.Jitter {
		seconds *= 0.5 + rand.Float64()
	}
	return time.Duration(seconds * float64(time.Second))
}

// maxDelay returns the policy cap as a Duration.
func (p RetryPolicy) maxDelay() time.Duration {
	return time.Duration(p.MaxDelay * float64(time.Second))
}

// Retry runs fn, retrying per policy as long as the error is retryable.
// A rate-limit Retry-After hint overrides the computed backoff unless it
// exceeds the policy cap, in which case the error is returned as is.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	result, err := fn(ctx)
	for attempt := 0; err != nil && attempt < policy.MaxRetries; attempt++ {
		if !IsRetryable(err) {
			return zero, err
		}

		delay := policy.Delay(attempt)
		if rl, ok := err.(*RateLimitError); ok && rl.RetryAfter != nil {
			hinted := time.Duration(*rl.RetryAfter * float64(time.Second))
			if hinted > policy.maxDelay() {
				return zero, err
			}
			delay = hinted
		}

		if policy.OnRetry != nil {
			policy.OnRetry(err, attempt+1, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, &AbortError{ClientError: ClientError{Message: "request cancelled during retry", Cause: ctx.Err()}}
		case <-timer.C:
		}

		result, err = fn(ctx)
	}

	if err != nil {
		return zero, err
	}
	return result, nil
}
