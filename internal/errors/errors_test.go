package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestIsCode(t *testing.T) {
	cause := fmt.Errorf("decode failed")

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"direct match", NewPreprocessFailedError(cause), ErrorPreprocessFailed, true},
		{"code mismatch", NewPreprocessFailedError(cause), ErrorNoNamesFound, false},
		{"wrapped match", fmt.Errorf("job failed: %w", NewNoNamesFoundError(2)), ErrorNoNamesFound, true},
		{"plain error", fmt.Errorf("boom"), ErrorPreprocessFailed, false},
		{"nil error", nil, ErrorPreprocessFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCode(tt.err, tt.code); got != tt.want {
				t.Errorf("IsCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("engine crashed")
	err := NewOCREngineError("auto", cause)

	if !stderrors.Is(err, cause) {
		t.Errorf("expected error to wrap its cause")
	}
}

func TestToMap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExtractionTimeoutError("job-1", 2*time.Minute, cause)

	m := err.ToMap()
	if m["error_code"] != string(ErrorExtractionTimeout) {
		t.Errorf("error_code = %v, want %s", m["error_code"], ErrorExtractionTimeout)
	}
	if m["timeout_duration"] != "2m0s" {
		t.Errorf("timeout_duration = %v, want 2m0s", m["timeout_duration"])
	}
	if m["cause"] != cause.Error() {
		t.Errorf("cause = %v, want %q", m["cause"], cause.Error())
	}
}

func TestErrorMessageIncludesCode(t *testing.T) {
	err := NewNoNamesFoundError(2)
	msg := err.Error()
	if msg == "" || msg[:len(ErrorNoNamesFound)] != string(ErrorNoNamesFound) {
		t.Errorf("Error() = %q, want prefix %s", msg, ErrorNoNamesFound)
	}
}
