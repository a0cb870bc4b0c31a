package domain

// Hard limits of the Firehose PutRecordBatch API.
// See https://docs.aws.amazon.com/firehose/latest/APIReference/API_PutRecordBatch.html
const (
	// RemoteMaxBatchRecords is the most records a single call may carry.
	RemoteMaxBatchRecords = 500

	// RemoteMaxBatchBytes is the largest total payload of a single call.
	RemoteMaxBatchBytes = 4 * 1024 * 1024

	// RemoteMaxRecordBytes is the largest payload of a single record.
	RemoteMaxRecordBytes = 1000 * 1024
)
