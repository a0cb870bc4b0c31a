package domain

// Record is a single encoded payload waiting for delivery.
// Records are opaque to the writer; only their length matters for batching.
type Record struct {
	// Data is the encoded payload sent to the stream as-is
	Data []byte
}

// NewRecord creates a record from an already encoded payload.
func NewRecord(data []byte) Record {
	return Record{Data: data}
}

// Len returns the payload size in bytes.
func (r Record) Len() int {
	return len(r.Data)
}

// TotalSize returns the sum of the payload sizes of records.
func TotalSize(records []Record) int {
	total := 0
	for _, r := range records {
		total += r.Len()
	}
	return total
}
