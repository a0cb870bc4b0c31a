package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the firehose-writer domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed configuration or Put input.
	ErrInvalidArgument = errors.New("firehose-writer: invalid argument")

	// ErrRecordTooLarge is returned when a record exceeds the single-record ceiling.
	ErrRecordTooLarge = errors.New("firehose-writer: record too large")

	// ErrDeliveryExhausted is returned when a chunk could not be delivered
	// within the retry budget or hit a non-retryable call failure.
	ErrDeliveryExhausted = errors.New("firehose-writer: delivery exhausted")

	// ErrClosed is returned by Put and Close after the writer has been closed.
	ErrClosed = errors.New("firehose-writer: closed")

	// ErrAlreadyRunning is returned when Start() is called on a running writer.
	ErrAlreadyRunning = errors.New("firehose-writer: already running")

	// ErrShutdownTimeout is returned when in-flight deliveries outlive Close.
	ErrShutdownTimeout = errors.New("firehose-writer: shutdown timeout")
)

// DeliveryError is the fatal outcome of delivering one chunk.
// It matches ErrDeliveryExhausted and, when present, its Cause.
type DeliveryError struct {
	StreamID   string
	Records    int
	MaxRetries int
	Attempts   int
	Cause      error
}

func (e *DeliveryError) Error() string {
	msg := fmt.Sprintf("delivery exhausted: stream=%s records=%d max_retries=%d attempts=%d",
		e.StreamID, e.Records, e.MaxRetries, e.Attempts)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DeliveryError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDeliveryExhausted}
	}
	return []error{ErrDeliveryExhausted, e.Cause}
}

// CallError is a failure of the remote call itself, as opposed to per-record
// failures reported in a successful response.
type CallError struct {
	Retryable bool
	Err       error
}

func (e *CallError) Error() string {
	kind := "non-retryable"
	if e.Retryable {
		kind = "retryable"
	}
	return fmt.Sprintf("%s call failure: %v", kind, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
