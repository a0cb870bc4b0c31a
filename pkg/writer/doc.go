// Package writer provides a buffered writer that batches records for bulk
// delivery to a remote stream such as an Amazon Kinesis Data Firehose
// delivery stream.
//
// # Quick Start
//
//	cfg := writer.DefaultConfig()
//	cfg.StreamID = "events"
//
//	w, err := writer.New(cfg, writer.WithBatchWriter(bw))
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Close(ctx)
//
//	_ = w.Put(map[string]any{"user": 42, "action": "login"})
//
// # Flushing
//
// The buffer is flushed when it holds MaxBufferBytes bytes or
// MaxBufferRecords records, every FlushInterval once Start was called,
// on an explicit [Writer.Flush], and exactly once more on [Writer.Close].
// A flush splits the buffer into chunks bounded by MaxChunkRecords and
// MaxChunkBytes and delivers every chunk concurrently.
//
// # Delivery
//
// Records rejected individually by the stream are retried on their own,
// immediately when only some failed and after RetryDelay when all of them
// did. A retryable call failure resends the whole chunk after RetryDelay.
// A chunk that is still not delivered after MaxRetries retries, or that hit
// a non-retryable call failure, fails with a [DeliveryError] matching
// [ErrDeliveryExhausted]. Delivery is at-least-once and there is no
// ordering guarantee across chunks.
//
// Failures of threshold and periodic flushes are logged because nothing
// waits for them; [Writer.Flush] and [Writer.Close] return them.
//
// The buffer lives in memory only. Records still in backoff when the
// process exits are lost.
package writer
