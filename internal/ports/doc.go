// Package ports declares what the delivery core needs from the outside:
// a [BatchWriter] that submits one batch of records to the stream service
// and reports a per-record outcome.
//
// internal/adapters/firehose implements it on the AWS SDK; tests use
// scripted in-memory fakes.
package ports
