package ports

import (
	"context"

	"github.com/getdelta/firehose-writer/internal/domain"
)

// BatchWriter submits batches of records to the remote stream service.
// Implementations must be safe for concurrent use: every chunk of a flush is
// delivered from its own goroutine.
type BatchWriter interface {
	// PutRecordBatch submits records as one call. On success it returns one
	// RecordResult per record, aligned positionally with records.
	// A non-nil error means the call itself failed and no record is known to
	// be delivered.
	PutRecordBatch(ctx context.Context, streamID string, records []domain.Record) ([]RecordResult, error)

	// IsRetryable classifies an error returned by PutRecordBatch.
	IsRetryable(err error) bool
}

// RecordResult is the per-record outcome of a successful call.
type RecordResult struct {
	// RecordID is the service-assigned id of a delivered record
	RecordID string

	// ErrorCode is non-empty when the record was rejected
	ErrorCode string

	// ErrorMessage describes the rejection
	ErrorMessage string
}

// Failed returns true if the record was not delivered.
func (r RecordResult) Failed() bool {
	return r.ErrorCode != ""
}
