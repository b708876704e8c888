package skedules

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls the single bounded retry applied to idempotent requests
// that fail transiently.
type RetryConfig struct {
	MaxRetries int           `yaml:"maxRetries"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"maxBackoff"`
}

// DefaultRetryConfig returns the stock one-retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 1,
		Backoff:    500 * time.Millisecond,
		MaxBackoff: 5 * time.Second,
	}
}

// Validate checks that all RetryConfig fields are within acceptable ranges.
func (c RetryConfig) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("retry: MaxRetries must be >= 0")
	}
	if c.Backoff <= 0 {
		return errors.New("retry: Backoff must be > 0")
	}
	if c.MaxBackoff < c.Backoff {
		return errors.New("retry: MaxBackoff must be >= Backoff")
	}
	return nil
}

// isRetryable reports whether err is a transient failure that may succeed on
// retry. Validation and timeout failures are never retryable; neither are
// context errors, since the caller chose to cancel.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var te *TransientError
	return errors.As(err, &te)
}

// sleepFunc is injectable so tests don't wait out real backoffs.
var sleepFunc = time.Sleep

// withRetry runs fn and, for retryable errors, retries up to cfg.MaxRetries
// times with bounded backoff. Returns the first success or the last error.
func withRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error
	backoff := cfg.Backoff

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == cfg.MaxRetries {
			break
		}
		sleepFunc(backoff)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if backoff *= 2; backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}
	return lastErr
}
