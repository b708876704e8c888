package skedules

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when a token refresh is needed but no
// credentials were stored by a prior Authenticate call.
var ErrNotAuthenticated = errors.New("skedules: not authenticated; call authenticate first")

// ValidationError maps a 4xx response: the request was malformed or referenced
// a nonexistent entity. Never retried.
type ValidationError struct {
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("skedules api rejected request (%d): %s", e.StatusCode, e.Message)
}

// TransientError maps a 5xx response or a connection-level failure. Eligible
// for one retry on idempotent requests before being surfaced.
type TransientError struct {
	StatusCode int // 0 when the failure happened below HTTP
	Message    string
}

func (e *TransientError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("skedules api unreachable: %s", e.Message)
	}
	return fmt.Sprintf("skedules api error (%d): %s", e.StatusCode, e.Message)
}

// TimeoutError maps a request deadline expiring. OutcomeUnknown is set for
// non-idempotent requests, where the write may or may not have been applied.
type TimeoutError struct {
	Op             string
	OutcomeUnknown bool
}

func (e *TimeoutError) Error() string {
	if e.OutcomeUnknown {
		return fmt.Sprintf("skedules %s timed out; the operation may or may not have been applied", e.Op)
	}
	return fmt.Sprintf("skedules %s timed out", e.Op)
}
