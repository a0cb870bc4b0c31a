package app

import (
	"fmt"
	"sync"

	"github.com/getdelta/firehose-writer/internal/domain"
)

// AccumulatorConfig holds the flush thresholds and the single-record ceiling.
type AccumulatorConfig struct {
	MaxBufferBytes   int
	MaxBufferRecords int
	MaxRecordBytes   int
}

// Accumulator is the in-memory buffer of records awaiting a flush.
// Append and the take operations are the only mutators and all run under one
// mutex, so a record is never lost or duplicated between a Put and a flush.
type Accumulator struct {
	config AccumulatorConfig

	mu      sync.Mutex
	records []domain.Record
	size    int
	closed  bool
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator(config AccumulatorConfig) *Accumulator {
	return &Accumulator{config: config}
}

// Append adds a record to the buffer.
// If the buffer reaches either threshold, it is taken in the same critical
// section and returned as drained; the caller owns delivering it.
func (a *Accumulator) Append(r domain.Record) (drained []domain.Record, err error) {
	if r.Len() > a.config.MaxRecordBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d",
			domain.ErrRecordTooLarge, r.Len(), a.config.MaxRecordBytes)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, domain.ErrClosed
	}

	a.records = append(a.records, r)
	a.size += r.Len()

	if a.size >= a.config.MaxBufferBytes || len(a.records) >= a.config.MaxBufferRecords {
		drained, _ = a.take()
	}
	return drained, nil
}

// TakeAndReset swaps the buffer for an empty one and returns its contents.
func (a *Accumulator) TakeAndReset() ([]domain.Record, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.take()
}

// Close takes the remaining records and rejects any further Append.
func (a *Accumulator) Close() ([]domain.Record, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return a.take()
}

// Stats returns the buffered record count and byte size.
func (a *Accumulator) Stats() (records, bytes int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records), a.size
}

func (a *Accumulator) take() ([]domain.Record, int) {
	records, size := a.records, a.size
	a.records = nil
	a.size = 0
	return records, size
}
