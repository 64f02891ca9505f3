// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package resilience

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"time"

	fserrors "github.com/privatefin/finsight/pkg/errors"
)

// ShouldRetry reports whether another attempt could turn err into a
// success.
type ShouldRetry func(err error) bool

// BackoffStrategy yields the pause taken after failed attempt n,
// before attempt n+1.
type BackoffStrategy func(attempt int) time.Duration

// RetryConfig bounds how stubbornly a failed call is re-attempted.
type RetryConfig struct {
	// MaxAttempts counts the first call too: 3 means one call and up
	// to two re-attempts.
	MaxAttempts int

	// Backoff yields the pause between attempts.
	Backoff BackoffStrategy

	// ShouldRetry decides whether an error is worth another attempt.
	ShouldRetry ShouldRetry

	// OnRetry, if set, observes each failed attempt before the pause.
	OnRetry func(attempt int, err error)
}

// DefaultRetryConfig is tuned for a single-host model server: three
// attempts total, pausing a quarter second and doubling, capped at
// four seconds so a retried chat call still feels interactive.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		Backoff:     ExponentialBackoff(250*time.Millisecond, 2.0, 4*time.Second),
		ShouldRetry: DefaultShouldRetry,
	}
}

// Retry runs fn until it succeeds, its retry budget runs out, ctx is
// cancelled, or it fails with an error retrying cannot fix.
func Retry(ctx context.Context, config *RetryConfig, fn Call) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !config.ShouldRetry(err) {
			return fmt.Errorf("not retryable: %w", err)
		}
		if attempt >= config.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrMaxAttemptsExceeded, attempt, err)
		}

		if config.OnRetry != nil {
			config.OnRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(config.Backoff(attempt)):
		}
	}
}

// ConstantBackoff pauses the same amount before every re-attempt.
func ConstantBackoff(delay time.Duration) BackoffStrategy {
	return func(int) time.Duration {
		return delay
	}
}

// ExponentialBackoff starts at base and multiplies the pause by
// multiplier for each further re-attempt, clamped at max.
func ExponentialBackoff(base time.Duration, multiplier float64, max time.Duration) BackoffStrategy {
	return func(attempt int) time.Duration {
		delay := time.Duration(float64(base) * math.Pow(multiplier, float64(attempt-1)))
		if delay > max {
			return max
		}
		return delay
	}
}

// DefaultShouldRetry separates transient infrastructure failures from
// failures another attempt cannot fix. A refused connection, a rate
// limit, or a timeout from the model runtime or the store clears up
// on its own; a response that arrived but didn't decode, or input the
// caller got wrong, fails identically next time. Errors outside the
// structured taxonomy are treated as transient - the only unwrapped
// errors that reach this layer are transport-level.
func DefaultShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var fe *fserrors.Error
	if !stderrors.As(err, &fe) {
		return true
	}

	switch fe.Code {
	case fserrors.ErrLLMConnection.Code,
		fserrors.ErrLLMRateLimit.Code,
		fserrors.ErrLLMTimeout.Code,
		fserrors.ErrStorageConnection.Code,
		fserrors.ErrStorageTimeout.Code,
		fserrors.ErrStoreUnavailable.Code:
		return true
	}
	return false
}
