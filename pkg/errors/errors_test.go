package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	plain := New(ErrCodeInvalidID, "invalid id: %q", "../x")
	if got := plain.Error(); got != `INVALID_ID: invalid id: "../x"` {
		t.Errorf("Error() = %s", got)
	}

	cause := errors.New("connection reset")
	wrapped := Wrap(ErrCodeNetwork, cause, "fetch %s", "agency/1125")
	if got := wrapped.Error(); got != "NETWORK_ERROR: fetch agency/1125: connection reset" {
		t.Errorf("Error() = %s", got)
	}
	if !errors.Is(wrapped, cause) || errors.Unwrap(wrapped) != cause {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestCodeLookup(t *testing.T) {
	inner := New(ErrCodeInvalidInput, "inner")
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"coded", New(ErrCodeInvalidID, "bad id"), ErrCodeInvalidID, "bad id"},
		{"outermost wins", Wrap(ErrCodeNetwork, inner, "outer"), ErrCodeNetwork, "outer"},
		{"through fmt", fmt.Errorf("load: %w", inner), ErrCodeInvalidInput, "inner"},
		{"plain", errors.New("plain"), "", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%s) = false", tt.code)
			}
			if Is(tt.err, ErrCodeRateLimited) {
				t.Error("Is matched an unrelated code")
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}

	if GetCode(nil) != "" || Is(nil, "") {
		t.Error("nil error has no code")
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		exit   int
	}{
		{"invalid id", New(ErrCodeInvalidID, "bad"), 400, ExitUsage},
		{"invalid amount", New(ErrCodeInvalidAmount, "bad"), 400, ExitUsage},
		{"bad config", New(ErrCodeInvalidConfig, "bad"), 500, ExitConfig},
		{"level not found", New(ErrCodeLevelNotFound, "missing"), 404, ExitNoInput},
		{"wrapped not found", Wrap(ErrCodeNotFound, errors.New("enoent"), "missing"), 404, ExitNoInput},
		{"rate limited", New(ErrCodeRateLimited, "slow down"), 429, ExitUnavailable},
		{"network", New(ErrCodeNetwork, "down"), 502, ExitUnavailable},
		{"timeout", New(ErrCodeTimeout, "slow"), 504, ExitUnavailable},
		{"unsupported", New(ErrCodeUnsupported, "no rsvg"), 501, ExitFailure},
		{"fmt wrapped", fmt.Errorf("load: %w", New(ErrCodeInvalidView, "pie")), 400, ExitUsage},
		{"plain error", errors.New("boom"), 500, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
			if got := ExitCode(tt.err); got != tt.exit {
				t.Errorf("ExitCode() = %d, want %d", got, tt.exit)
			}
		})
	}
}

func TestEveryCodeIsClassified(t *testing.T) {
	for _, code := range allCodes {
		if _, ok := classes[code]; !ok {
			t.Errorf("%s has no status class", code)
		}
	}
}
