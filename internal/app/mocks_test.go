package app

import (
	"context"
	"sync"
	"time"

	"github.com/getdelta/firehose-writer/internal/domain"
	"github.com/getdelta/firehose-writer/internal/ports"
	"github.com/getdelta/firehose-writer/pkg/log"
)

// mockLogger implements log.Logger for testing.
type mockLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
}

func (*mockLogger) Debug(msg string, fields ...log.Field) {}
func (*mockLogger) Info(msg string, fields ...log.Field)  {}

func (m *mockLogger) Warn(msg string, fields ...log.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) Error(msg string, fields ...log.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, msg)
}

// noopMetrics implements DeliveryMetrics by discarding everything.
type noopMetrics struct{}

func (noopMetrics) IncDeliveryAttempts(string)          {}
func (noopMetrics) AddRecordsDelivered(string, int)     {}
func (noopMetrics) AddRecordsFailed(string, int)        {}
func (noopMetrics) IncRetries(string, string)           {}
func (noopMetrics) IncChunksExhausted(string)           {}
func (noopMetrics) ObserveCallDuration(string, float64) {}
func (noopMetrics) AddChunksDispatched(string, int)     {}

// callFunc scripts one response of mockWriter.
type callFunc func(records []domain.Record) ([]ports.RecordResult, error)

// mockWriter implements ports.BatchWriter with scripted responses.
// Calls beyond the script succeed for every record.
type mockWriter struct {
	mu        sync.Mutex
	script    []callFunc
	calls     [][]domain.Record
	retryable func(error) bool
}

func (m *mockWriter) PutRecordBatch(ctx context.Context, streamID string, records []domain.Record) ([]ports.RecordResult, error) {
	m.mu.Lock()
	n := len(m.calls)
	m.calls = append(m.calls, append([]domain.Record(nil), records...))
	var fn callFunc
	if n < len(m.script) {
		fn = m.script[n]
	}
	m.mu.Unlock()

	if fn == nil {
		return okResults(len(records)), nil
	}
	return fn(records)
}

func (m *mockWriter) IsRetryable(err error) bool {
	if m.retryable == nil {
		return true
	}
	return m.retryable(err)
}

func (m *mockWriter) Calls() [][]domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Record(nil), m.calls...)
}

func okResults(n int) []ports.RecordResult {
	return make([]ports.RecordResult, n)
}

// failWhere fails every record whose payload is in bad.
func failWhere(bad ...string) callFunc {
	return func(records []domain.Record) ([]ports.RecordResult, error) {
		results := okResults(len(records))
		for i, r := range records {
			for _, b := range bad {
				if string(r.Data) == b {
					results[i] = ports.RecordResult{ErrorCode: "ServiceUnavailableException", ErrorMessage: "slow down"}
				}
			}
		}
		return results, nil
	}
}

func failCall(err error) callFunc {
	return func([]domain.Record) ([]ports.RecordResult, error) {
		return nil, err
	}
}

// recordingSleep replaces the engine's sleep and records requested delays.
type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleep) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleep) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func records(payloads ...string) []domain.Record {
	out := make([]domain.Record, len(payloads))
	for i, p := range payloads {
		out[i] = domain.NewRecord([]byte(p))
	}
	return out
}

func sized(sizes ...int) []domain.Record {
	out := make([]domain.Record, len(sizes))
	for i, n := range sizes {
		out[i] = domain.NewRecord(make([]byte, n))
	}
	return out
}
