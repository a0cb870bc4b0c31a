// Package firehose implements ports.BatchWriter on top of the Amazon Kinesis
// Data Firehose PutRecordBatch API.
package firehose

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/aws/aws-sdk-go-v2/service/firehose/types"

	"github.com/getdelta/firehose-writer/internal/domain"
	"github.com/getdelta/firehose-writer/internal/ports"
)

// Ensure implementation satisfies interface at compile time.
var _ ports.BatchWriter = (*Writer)(nil)

// API is the subset of the Firehose client used by Writer.
type API interface {
	PutRecordBatch(ctx context.Context, params *firehose.PutRecordBatchInput, optFns ...func(*firehose.Options)) (*firehose.PutRecordBatchOutput, error)
}

// Config contains AWS Firehose client configuration.
type Config struct {
	Region   string
	Endpoint string
}

// Writer delivers record batches to a Firehose delivery stream.
type Writer struct {
	api API
}

// New loads the default AWS configuration and creates a Firehose-backed writer.
// Credentials come from the standard chain (env, shared config, IMDS).
func New(ctx context.Context, cfg Config) (*Writer, error) {
	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := firehose.NewFromConfig(awsConfig, func(o *firehose.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// Retries are owned by the delivery engine.
		o.Retryer = aws.NopRetryer{}
	})

	return NewWithAPI(client), nil
}

// NewWithAPI creates a writer over an existing client.
func NewWithAPI(api API) *Writer {
	return &Writer{api: api}
}

// PutRecordBatch sends records to the delivery stream named streamID.
func (w *Writer) PutRecordBatch(ctx context.Context, streamID string, records []domain.Record) ([]ports.RecordResult, error) {
	entries := make([]types.Record, len(records))
	for i, r := range records {
		entries[i] = types.Record{Data: r.Data}
	}

	out, err := w.api.PutRecordBatch(ctx, &firehose.PutRecordBatchInput{
		DeliveryStreamName: aws.String(streamID),
		Records:            entries,
	})
	if err != nil {
		return nil, fmt.Errorf("put record batch: %w", err)
	}

	results := make([]ports.RecordResult, len(out.RequestResponses))
	for i, resp := range out.RequestResponses {
		results[i] = ports.RecordResult{
			RecordID:     aws.ToString(resp.RecordId),
			ErrorCode:    aws.ToString(resp.ErrorCode),
			ErrorMessage: aws.ToString(resp.ErrorMessage),
		}
	}
	return results, nil
}

// IsRetryable reports whether a PutRecordBatch error is transient.
// Throttling, service unavailability and the SDK's default retryable
// conditions are transient; validation, missing streams and access errors
// are not.
func (w *Writer) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var unavailable *types.ServiceUnavailableException
	if errors.As(err, &unavailable) {
		return true
	}
	if retry.IsErrorThrottles(retry.DefaultThrottles).IsErrorThrottle(err) == aws.TrueTernary {
		return true
	}
	return retry.IsErrorRetryables(retry.DefaultRetryables).IsErrorRetryable(err) == aws.TrueTernary
}
