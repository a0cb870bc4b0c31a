// Package firehosewriter provides a buffered writer for Amazon Kinesis Data
// Firehose delivery streams.
//
// Example usage:
//
//	cfg := firehosewriter.DefaultConfig()
//	cfg.StreamID = "events"
//	w, err := firehosewriter.New(ctx, cfg, firehosewriter.AWSConfig{Region: "us-east-1"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close(ctx)
//	if err := w.Put(map[string]any{"event": "signup"}); err != nil {
//	    log.Fatal(err)
//	}
//
// Use the writer package directly to deliver through another BatchWriter.
package firehosewriter

import (
	"context"

	"github.com/getdelta/firehose-writer/internal/adapters/firehose"
	"github.com/getdelta/firehose-writer/pkg/writer"
)

// Config holds the configuration of a Writer.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = writer.Config

// Writer buffers records and delivers them to a delivery stream.
type Writer = writer.Writer

// Option configures optional behavior of Writer.
type Option = writer.Option

// AWSConfig selects the AWS region and, optionally, a custom endpoint such
// as a local emulator. Credentials come from the default AWS chain.
type AWSConfig = firehose.Config

// DefaultConfig returns a Config with sensible default values.
// At minimum, you must set StreamID before calling New.
func DefaultConfig() Config {
	return writer.DefaultConfig()
}

// New creates a Writer delivering to Firehose through the AWS SDK default
// configuration. A WithBatchWriter option overrides the Firehose client.
func New(ctx context.Context, cfg Config, aws AWSConfig, opts ...Option) (*Writer, error) {
	fh, err := firehose.New(ctx, aws)
	if err != nil {
		return nil, err
	}
	return writer.New(cfg, append([]Option{writer.WithBatchWriter(fh)}, opts...)...)
}
