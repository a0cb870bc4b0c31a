package domain

// Chunk is an ordered group of records eligible for one delivery call.
// Size always equals the sum of record lengths.
// Chunks are never modified after the splitter returns them; retries work on
// subsets of Records.
type Chunk struct {
	// Records in buffer order
	Records []Record

	// Size is the sum of all record payload lengths
	Size int
}

// Add appends a record to the chunk.
func (c *Chunk) Add(r Record) {
	c.Records = append(c.Records, r)
	c.Size += r.Len()
}

// Len returns the number of records in the chunk.
func (c Chunk) Len() int {
	return len(c.Records)
}

// Empty returns true if the chunk has no records.
func (c Chunk) Empty() bool {
	return len(c.Records) == 0
}

// Fits reports whether r can join the chunk without exceeding either limit.
func (c Chunk) Fits(r Record, maxBytes, maxRecords int) bool {
	return c.Size+r.Len() <= maxBytes && c.Len()+1 <= maxRecords
}
