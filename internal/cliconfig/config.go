package cliconfig

import (
	"fmt"
	"time"

	"github.com/getdelta/firehose-writer/pkg/writer"
)

// Config holds CLI configuration for firehose-writer.
type Config struct {
	StreamID string
	Region   string
	Endpoint string

	Input  string
	Follow bool

	MaxBufferBytes   int
	MaxBufferRecords int
	FlushInterval    time.Duration
	MaxChunkRecords  int
	MaxChunkBytes    int
	MaxRecordBytes   int
	MaxRetries       int
	RetryDelay       time.Duration

	ShutdownTimeout time.Duration
	MetricsAddr     string
	LogLevel        string
}

// DefaultConfig returns the writer defaults plus stdin input and a 30s
// shutdown deadline.
func DefaultConfig() Config {
	w := writer.DefaultConfig()
	return Config{
		Input:            "-",
		MaxBufferBytes:   w.MaxBufferBytes,
		MaxBufferRecords: w.MaxBufferRecords,
		FlushInterval:    w.FlushInterval,
		MaxChunkRecords:  w.MaxChunkRecords,
		MaxChunkBytes:    w.MaxChunkBytes,
		MaxRecordBytes:   w.MaxRecordBytes,
		MaxRetries:       w.MaxRetries,
		RetryDelay:       w.RetryDelay,
		ShutdownTimeout:  30 * time.Second,
		LogLevel:         "info",
	}
}

// Validate rejects unusable CLI settings and normalizes Input. Writer
// limits are checked again by writer.New.
func (c *Config) Validate() error {
	if c.StreamID == "" {
		return fmt.Errorf("stream is required")
	}
	if c.Input == "" {
		c.Input = "-"
	}
	if c.Follow && c.Input == "-" {
		return fmt.Errorf("follow requires an input file")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return c.WriterConfig().Validate()
}

// WriterConfig returns the writer settings of the configuration.
func (c *Config) WriterConfig() writer.Config {
	return writer.Config{
		StreamID:         c.StreamID,
		MaxBufferBytes:   c.MaxBufferBytes,
		MaxBufferRecords: c.MaxBufferRecords,
		FlushInterval:    c.FlushInterval,
		MaxChunkRecords:  c.MaxChunkRecords,
		MaxChunkBytes:    c.MaxChunkBytes,
		MaxRecordBytes:   c.MaxRecordBytes,
		MaxRetries:       c.MaxRetries,
		RetryDelay:       c.RetryDelay,
	}
}
