package skedules

import (
	"context"
	"errors"
	"testing"
	"time"
)

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleepFunc
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleepFunc = orig })
	return &slept
}

func TestWithRetry_TransientRetriedOnce(t *testing.T) {
	slept := stubSleep(t)
	cfg := DefaultRetryConfig()

	calls := 0
	err := withRetry(context.Background(), cfg, func() error {
		calls++
		if calls == 1 {
			return &TransientError{StatusCode: 500, Message: "flaky"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls: want 2, got %d", calls)
	}
	if len(*slept) != 1 || (*slept)[0] != cfg.Backoff {
		t.Fatalf("expected a single backoff of %v, got %v", cfg.Backoff, *slept)
	}
}

func TestWithRetry_ExhaustedReturnsLastError(t *testing.T) {
	stubSleep(t)
	calls := 0
	err := withRetry(context.Background(), DefaultRetryConfig(), func() error {
		calls++
		return &TransientError{StatusCode: 503, Message: "still down"}
	})
	var te *TransientError
	if !errors.As(err, &te) || te.StatusCode != 503 {
		t.Fatalf("expected final TransientError, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls: want 2 (initial + one retry), got %d", calls)
	}
}

func TestWithRetry_ValidationNeverRetried(t *testing.T) {
	stubSleep(t)
	calls := 0
	err := withRetry(context.Background(), DefaultRetryConfig(), func() error {
		calls++
		return &ValidationError{StatusCode: 404, Message: "not found"}
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("validation failures must not be retried, calls=%d", calls)
	}
}

func TestWithRetry_TimeoutNeverRetried(t *testing.T) {
	stubSleep(t)
	calls := 0
	err := withRetry(context.Background(), DefaultRetryConfig(), func() error {
		calls++
		return &TimeoutError{Op: "create_event", OutcomeUnknown: true}
	})
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("timeouts must not be retried, calls=%d", calls)
	}
}

func TestWithRetry_CanceledContextStopsRetrying(t *testing.T) {
	stubSleep(t)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, DefaultRetryConfig(), func() error {
		calls++
		cancel()
		return &TransientError{Message: "flaky"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls: want 1, got %d", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transient", &TransientError{StatusCode: 500}, true},
		{"validation", &ValidationError{StatusCode: 400}, false},
		{"timeout", &TimeoutError{Op: "x"}, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryable(tc.err); got != tc.want {
				t.Fatalf("isRetryable(%v): want %v, got %v", tc.err, tc.want, got)
			}
		})
	}
}

func TestRetryConfigValidate(t *testing.T) {
	if err := DefaultRetryConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	bad := RetryConfig{MaxRetries: -1, Backoff: time.Second, MaxBackoff: time.Second}
	if err := bad.Validate(); err == nil {
		t.Fatal("negative MaxRetries should fail validation")
	}
	bad = RetryConfig{MaxRetries: 1, Backoff: 0, MaxBackoff: time.Second}
	if err := bad.Validate(); err == nil {
		t.Fatal("zero Backoff should fail validation")
	}
	bad = RetryConfig{MaxRetries: 1, Backoff: time.Second, MaxBackoff: time.Millisecond}
	if err := bad.Validate(); err == nil {
		t.Fatal("MaxBackoff below Backoff should fail validation")
	}
}
