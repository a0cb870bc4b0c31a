package app

import (
	"slices"

	"github.com/getdelta/firehose-writer/internal/domain"
)

// Split packs records into chunks bounded by maxBytes and maxRecords.
//
// A single greedy pass keeps buffer order within each chunk: a record joins
// the current chunk if both limits still hold, otherwise the current chunk is
// sealed and a new one starts with it. A record larger than maxBytes on its
// own still gets a chunk of its own.
//
// The result lists the most recently started chunk first.
func Split(records []domain.Record, maxBytes, maxRecords int) []domain.Chunk {
	if len(records) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	var current domain.Chunk
	for _, r := range records {
		if !current.Empty() && !current.Fits(r, maxBytes, maxRecords) {
			chunks = append(chunks, current)
			current = domain.Chunk{}
		}
		current.Add(r)
	}
	chunks = append(chunks, current)

	slices.Reverse(chunks)
	return chunks
}
