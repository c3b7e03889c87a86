package storage

import (
	"context"
	"time"
)

// RetryConfig defines retry behavior
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns sensible defaults for callers that opt into retries
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// NoRetry runs the operation exactly once
func NoRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 1}
}

// RetryConfigFor returns a config allowing retries extra attempts after the first
func RetryConfigFor(retries int) RetryConfig {
	if retries <= 0 {
		return NoRetry()
	}
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = retries + 1
	return cfg
}

// WithRetry executes operation with retry logic
func WithRetry(ctx context.Context, cfg RetryConfig, op func() error) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= max(cfg.MaxAttempts, 1); attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		lastErr = err

		if IsCritical(err) || !IsRetryable(err) {
			return err
		}

		if attempt >= cfg.MaxAttempts {
			break
		}

		select {
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
