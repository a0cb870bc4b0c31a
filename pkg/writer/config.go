package writer

import (
	"fmt"
	"time"

	"github.com/getdelta/firehose-writer/internal/domain"
)

// Default configuration values.
const (
	DefaultMaxBufferBytes   = 4 * 1024 * 1024
	DefaultMaxBufferRecords = 500
	DefaultFlushInterval    = time.Second
	DefaultMaxChunkRecords  = domain.RemoteMaxBatchRecords
	DefaultMaxChunkBytes    = domain.RemoteMaxBatchBytes
	DefaultMaxRecordBytes   = domain.RemoteMaxRecordBytes
	DefaultMaxRetries       = 3
	DefaultRetryDelay       = 500 * time.Millisecond
)

// Config holds the configuration for a Writer. It is copied by New and
// cannot be changed afterwards.
type Config struct {
	// StreamID is the delivery stream records are written to. Required.
	StreamID string

	// MaxBufferBytes flushes the buffer once it holds at least this many bytes.
	MaxBufferBytes int

	// MaxBufferRecords flushes the buffer once it holds this many records.
	MaxBufferRecords int

	// FlushInterval is the period of the background flush started by Start.
	FlushInterval time.Duration

	// MaxChunkRecords and MaxChunkBytes bound a single delivery call.
	MaxChunkRecords int
	MaxChunkBytes   int

	// MaxRecordBytes is the largest payload Put accepts.
	MaxRecordBytes int

	// MaxRetries is the number of attempts allowed after the first one.
	MaxRetries int

	// RetryDelay is the wait before a retry after a throttling-like failure.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, StreamID must be set before calling New.
func DefaultConfig() Config {
	return Config{
		MaxBufferBytes:   DefaultMaxBufferBytes,
		MaxBufferRecords: DefaultMaxBufferRecords,
		FlushInterval:    DefaultFlushInterval,
		MaxChunkRecords:  DefaultMaxChunkRecords,
		MaxChunkBytes:    DefaultMaxChunkBytes,
		MaxRecordBytes:   DefaultMaxRecordBytes,
		MaxRetries:       DefaultMaxRetries,
		RetryDelay:       DefaultRetryDelay,
	}
}

// Validate checks the configuration against its own constraints and the
// hard limits of the stream service.
func (c Config) Validate() error {
	if c.StreamID == "" {
		return invalid("stream id is required")
	}
	if c.MaxBufferBytes <= 0 {
		return invalid("max buffer bytes must be positive")
	}
	if c.MaxBufferRecords <= 0 || c.MaxBufferRecords > domain.RemoteMaxBatchRecords {
		return invalid("max buffer records must be in [1, %d]", domain.RemoteMaxBatchRecords)
	}
	if c.FlushInterval <= 0 {
		return invalid("flush interval must be positive")
	}
	if c.MaxChunkRecords <= 0 || c.MaxChunkRecords > domain.RemoteMaxBatchRecords {
		return invalid("max chunk records must be in [1, %d]", domain.RemoteMaxBatchRecords)
	}
	if c.MaxChunkBytes <= 0 || c.MaxChunkBytes > domain.RemoteMaxBatchBytes {
		return invalid("max chunk bytes must be in [1, %d]", domain.RemoteMaxBatchBytes)
	}
	if c.MaxRecordBytes <= 0 || c.MaxRecordBytes > domain.RemoteMaxRecordBytes {
		return invalid("max record bytes must be in [1, %d]", domain.RemoteMaxRecordBytes)
	}
	if c.MaxRetries < 0 {
		return invalid("max retries must not be negative")
	}
	if c.RetryDelay < 0 {
		return invalid("retry delay must not be negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
