package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrConnFailed       = errors.New("connection failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("bucket or object not found")
	ErrTimeout          = errors.New("operation timeout")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// IsRetryable returns true if error should trigger a retry
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConnFailed) || errors.Is(err, ErrTimeout)
}

// IsCritical returns true if error should stop all operations
func IsCritical(err error) bool {
	return errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrInvalidConfig)
}

// WrapError adds context to an error
func WrapError(provider, operation string, err error) error {
	return fmt.Errorf("%s (%s): %w", operation, provider, err)
}

// Classify tags a provider error with the sentinel matching its status code,
// so callers can decide on retries. status is 0 when no response was received.
func Classify(err error, status int) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}

	var sentinel error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || isNetTimeout(err):
		sentinel = ErrTimeout
	case status == 0:
		sentinel = ErrConnFailed
	case status == http.StatusUnauthorized:
		sentinel = ErrAuthFailed
	case status == http.StatusForbidden:
		sentinel = ErrPermissionDenied
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		sentinel = ErrConnFailed
	default:
		sentinel = ErrUnexpectedStatus
	}

	return fmt.Errorf("%w: %w", sentinel, err)
}

func isNetTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
