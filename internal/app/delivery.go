package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getdelta/firehose-writer/internal/domain"
	"github.com/getdelta/firehose-writer/internal/ports"
	"github.com/getdelta/firehose-writer/pkg/log"
)

// Retry reasons reported to metrics.
const (
	RetryPartial   = "partial"
	RetryFullBatch = "full_batch"
	RetryCall      = "call"
)

// EngineConfig contains configuration for chunk delivery.
type EngineConfig struct {
	StreamID   string
	MaxRetries int
	RetryDelay time.Duration
}

// DeliveryMetrics receives delivery events.
type DeliveryMetrics interface {
	IncDeliveryAttempts(stream string)
	AddRecordsDelivered(stream string, n int)
	AddRecordsFailed(stream string, n int)
	IncRetries(stream, reason string)
	IncChunksExhausted(stream string)
	ObserveCallDuration(stream string, seconds float64)
	AddChunksDispatched(stream string, n int)
}

// Engine delivers chunks to a BatchWriter with bounded retry.
// It holds no per-chunk state and is safe for concurrent use.
type Engine struct {
	config  EngineConfig
	writer  ports.BatchWriter
	logger  log.Logger
	metrics DeliveryMetrics
	sleep   SleepFunc
}

// NewEngine creates a delivery engine.
func NewEngine(config EngineConfig, writer ports.BatchWriter, logger log.Logger, metrics DeliveryMetrics) *Engine {
	return &Engine{
		config:  config,
		writer:  writer,
		logger:  logger,
		metrics: metrics,
		sleep:   sleepContext,
	}
}

// Deliver sends records and retries failures until every record is
// acknowledged or the retry budget is spent.
//
// Records rejected individually are retried on their own: immediately when
// only some failed, after RetryDelay when the whole attempt failed. A
// retryable call error resends the whole pending set after RetryDelay. A
// non-retryable call error, an exhausted budget or a canceled context ends
// delivery with a *domain.DeliveryError.
func (e *Engine) Deliver(ctx context.Context, records []domain.Record) error {
	total := len(records)
	pending := records
	var lastErr error

	for attempt := 0; ; attempt++ {
		if attempt > e.config.MaxRetries {
			return e.exhausted(total, attempt, lastErr)
		}

		e.metrics.IncDeliveryAttempts(e.config.StreamID)
		start := time.Now()
		results, err := e.writer.PutRecordBatch(ctx, e.config.StreamID, pending)
		e.metrics.ObserveCallDuration(e.config.StreamID, time.Since(start).Seconds())

		if err == nil && len(results) != len(pending) {
			err = &domain.CallError{
				Retryable: true,
				Err:       fmt.Errorf("got %d results for %d records", len(results), len(pending)),
			}
		}

		if err != nil {
			retryable := e.isRetryable(err)
			e.logger.Error("batch call failed",
				log.String("stream", e.config.StreamID),
				log.Int("records", len(pending)),
				log.Int("attempt", attempt),
				log.Bool("retryable", retryable),
				log.Err(err),
			)
			if !retryable {
				return e.exhausted(total, attempt+1, err)
			}
			lastErr = err
			if attempt+1 > e.config.MaxRetries {
				return e.exhausted(total, attempt+1, lastErr)
			}
			e.metrics.IncRetries(e.config.StreamID, RetryCall)
			if err := e.sleep(ctx, e.config.RetryDelay); err != nil {
				return e.exhausted(total, attempt+1, err)
			}
			continue
		}

		failed, lastCode := failedRecords(pending, results)
		e.metrics.AddRecordsDelivered(e.config.StreamID, len(pending)-len(failed))
		if len(failed) == 0 {
			return nil
		}

		e.metrics.AddRecordsFailed(e.config.StreamID, len(failed))
		fullBatch := len(failed) == len(pending)
		e.logger.Warn("records failed delivery",
			log.String("stream", e.config.StreamID),
			log.Int("failed", len(failed)),
			log.Int("records", len(pending)),
			log.Int("attempt", attempt),
			log.String("error_code", lastCode),
		)

		lastErr = fmt.Errorf("%d of %d records rejected, last error code %q", len(failed), len(pending), lastCode)
		pending = failed
		if attempt+1 > e.config.MaxRetries {
			return e.exhausted(total, attempt+1, lastErr)
		}

		if fullBatch {
			// Every record failing usually means the stream is throttling.
			e.metrics.IncRetries(e.config.StreamID, RetryFullBatch)
			if err := e.sleep(ctx, e.config.RetryDelay); err != nil {
				return e.exhausted(total, attempt+1, err)
			}
			continue
		}
		e.metrics.IncRetries(e.config.StreamID, RetryPartial)
	}
}

func (e *Engine) isRetryable(err error) bool {
	var callErr *domain.CallError
	if errors.As(err, &callErr) {
		return callErr.Retryable
	}
	return e.writer.IsRetryable(err)
}

func (e *Engine) exhausted(records, attempts int, cause error) error {
	e.metrics.IncChunksExhausted(e.config.StreamID)
	return &domain.DeliveryError{
		StreamID:   e.config.StreamID,
		Records:    records,
		MaxRetries: e.config.MaxRetries,
		Attempts:   attempts,
		Cause:      cause,
	}
}

// failedRecords returns the records whose result carries an error, in order,
// plus the last error code seen.
func failedRecords(records []domain.Record, results []ports.RecordResult) ([]domain.Record, string) {
	var failed []domain.Record
	var code string
	for i, res := range results {
		if res.Failed() {
			failed = append(failed, records[i])
			code = res.ErrorCode
		}
	}
	return failed, code
}
