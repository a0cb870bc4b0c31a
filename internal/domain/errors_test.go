package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestDeliveryError_Is(t *testing.T) {
	cause := errors.New("resource not found")

	tests := []struct {
		name      string
		err       *DeliveryError
		wantCause bool
	}{
		{"exhausted without cause", &DeliveryError{StreamID: "s", Records: 3, MaxRetries: 2, Attempts: 3}, false},
		{"exhausted with cause", &DeliveryError{StreamID: "s", Records: 3, MaxRetries: 2, Attempts: 1, Cause: cause}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, ErrDeliveryExhausted) {
				t.Errorf("errors.Is(%v, ErrDeliveryExhausted) = false, want true", tt.err)
			}
			if got := errors.Is(tt.err, cause); got != tt.wantCause {
				t.Errorf("errors.Is(err, cause) = %v, want %v", got, tt.wantCause)
			}
		})
	}
}

func TestDeliveryError_Error(t *testing.T) {
	err := &DeliveryError{StreamID: "events", Records: 42, MaxRetries: 3, Attempts: 4}

	msg := err.Error()
	for _, want := range []string{"stream=events", "records=42", "max_retries=3"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestCallError(t *testing.T) {
	inner := errors.New("throttled")
	err := &CallError{Retryable: true, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("CallError does not unwrap to inner error")
	}
	if !strings.Contains(err.Error(), "retryable") {
		t.Errorf("Error() = %q, want classification", err.Error())
	}

	var ce *CallError
	if !errors.As(error(err), &ce) || !ce.Retryable {
		t.Error("errors.As did not recover retryable CallError")
	}
}

func TestChunk_Fits(t *testing.T) {
	var c Chunk
	c.Add(NewRecord(make([]byte, 600)))

	if c.Fits(NewRecord(make([]byte, 500)), 1000, 10) {
		t.Error("Fits() = true for 1100 bytes with limit 1000")
	}
	if !c.Fits(NewRecord(make([]byte, 400)), 1000, 10) {
		t.Error("Fits() = false for exactly 1000 bytes")
	}
	if c.Fits(NewRecord(nil), 1000, 1) {
		t.Error("Fits() = true past the record limit")
	}
	if c.Size != 600 || c.Len() != 1 {
		t.Errorf("chunk = {len %d, size %d}, want {1, 600}", c.Len(), c.Size)
	}
}
