package writer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/getdelta/firehose-writer/internal/domain"
	"github.com/getdelta/firehose-writer/internal/ports"
	"github.com/getdelta/firehose-writer/pkg/log"
)

// BatchWriter is the remote collaborator records are delivered through.
// It must be safe for concurrent use.
type BatchWriter = ports.BatchWriter

// RecordResult is the per-record outcome returned by a BatchWriter.
type RecordResult = ports.RecordResult

// Record is an encoded payload as handed to a BatchWriter.
type Record = domain.Record

// Option configures optional behavior of Writer.
type Option func(*options)

// options holds the optional configuration for a Writer instance.
type options struct {
	batchWriter BatchWriter
	logger      log.Logger
	registry    prometheus.Registerer
}

// WithBatchWriter sets the collaborator used to deliver chunks. Required.
func WithBatchWriter(bw BatchWriter) Option {
	return func(o *options) {
		o.batchWriter = bw
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, JSON lines are written to standard output.
// A log.Func adapts a plain (level, message, context) callback.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics registers the writer's Prometheus metrics on registry.
// If not provided, metrics are kept on a private registry.
func WithMetrics(registry prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = registry
	}
}
