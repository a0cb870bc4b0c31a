package writer

import "github.com/getdelta/firehose-writer/internal/domain"

// Errors returned by Writer. Check them with errors.Is.
var (
	ErrInvalidArgument   = domain.ErrInvalidArgument
	ErrRecordTooLarge    = domain.ErrRecordTooLarge
	ErrDeliveryExhausted = domain.ErrDeliveryExhausted
	ErrClosed            = domain.ErrClosed
	ErrAlreadyRunning    = domain.ErrAlreadyRunning
	ErrShutdownTimeout   = domain.ErrShutdownTimeout
)

// DeliveryError describes a chunk that could not be delivered.
// Use errors.As on the error returned by Flush or Close to inspect it.
type DeliveryError = domain.DeliveryError

// Hard limits of the stream service.
const (
	RemoteMaxBatchRecords = domain.RemoteMaxBatchRecords
	RemoteMaxBatchBytes   = domain.RemoteMaxBatchBytes
	RemoteMaxRecordBytes  = domain.RemoteMaxRecordBytes
)
