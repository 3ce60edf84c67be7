package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestRetry(t *testing.T) {
	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		attempts  int
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"first try", 3, 0, nil, 1, nil},
		{"recovers", 3, 2, Retryable(errTransient), 3, nil},
		{"exhausted", 2, 5, Retryable(errTransient), 2, errTransient},
		{"permanent stops", 3, 5, permanent, 1, permanent},
		{"zero attempts runs once", 0, 5, Retryable(errTransient), 1, errTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) && !(err == nil && tt.wantErr == nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error { return Retryable(errTransient) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryAfterOverridesDelay(t *testing.T) {
	start := time.Now()
	calls := 0
	err := Retry(context.Background(), 2, time.Hour, func() error {
		calls++
		if calls == 1 {
			return RetryAfter(errTransient, time.Millisecond)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > time.Minute {
		t.Error("RetryAfter hint was ignored")
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil || RetryAfter(nil, time.Second) != nil {
		t.Error("wrapping nil should return nil")
	}
	if IsRetryable(errTransient) {
		t.Error("plain error reported retryable")
	}
	if !IsRetryable(Retryable(errTransient)) {
		t.Error("wrapped error not retryable")
	}
}
