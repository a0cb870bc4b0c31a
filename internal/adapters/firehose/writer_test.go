package firehose

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/aws/aws-sdk-go-v2/service/firehose/types"
	"github.com/aws/smithy-go"

	"github.com/getdelta/firehose-writer/internal/domain"
)

// fakeAPI implements API for testing.
type fakeAPI struct {
	input *firehose.PutRecordBatchInput
	out   *firehose.PutRecordBatchOutput
	err   error
}

func (f *fakeAPI) PutRecordBatch(ctx context.Context, params *firehose.PutRecordBatchInput, optFns ...func(*firehose.Options)) (*firehose.PutRecordBatchOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func TestWriter_PutRecordBatch(t *testing.T) {
	api := &fakeAPI{out: &firehose.PutRecordBatchOutput{
		FailedPutCount: aws.Int32(1),
		RequestResponses: []types.PutRecordBatchResponseEntry{
			{RecordId: aws.String("id-1")},
			{ErrorCode: aws.String("ServiceUnavailableException"), ErrorMessage: aws.String("Slow down.")},
		},
	}}
	w := NewWithAPI(api)

	records := []domain.Record{
		domain.NewRecord([]byte(`{"a":1}`)),
		domain.NewRecord([]byte(`{"b":2}`)),
	}
	results, err := w.PutRecordBatch(context.Background(), "events", records)
	if err != nil {
		t.Fatalf("PutRecordBatch() error = %v", err)
	}

	if got := aws.ToString(api.input.DeliveryStreamName); got != "events" {
		t.Errorf("DeliveryStreamName = %q, want events", got)
	}
	if len(api.input.Records) != 2 || string(api.input.Records[1].Data) != `{"b":2}` {
		t.Errorf("Records = %+v", api.input.Records)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Failed() || results[0].RecordID != "id-1" {
		t.Errorf("results[0] = %+v, want delivered id-1", results[0])
	}
	if !results[1].Failed() || results[1].ErrorCode != "ServiceUnavailableException" {
		t.Errorf("results[1] = %+v, want failure", results[1])
	}
}

func TestWriter_PutRecordBatch_CallError(t *testing.T) {
	cause := &types.ResourceNotFoundException{Message: aws.String("stream missing")}
	w := NewWithAPI(&fakeAPI{err: cause})

	_, err := w.PutRecordBatch(context.Background(), "events", []domain.Record{domain.NewRecord([]byte("x"))})

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		t.Errorf("PutRecordBatch() error = %v, want wrapped ResourceNotFoundException", err)
	}
}

func TestWriter_IsRetryable(t *testing.T) {
	w := NewWithAPI(&fakeAPI{})

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"service unavailable", &types.ServiceUnavailableException{Message: aws.String("busy")}, true},
		{"wrapped service unavailable", fmt.Errorf("put record batch: %w", &types.ServiceUnavailableException{}), true},
		{"throttling", &smithy.GenericAPIError{Code: "ThrottlingException", Message: "Rate exceeded"}, true},
		{"resource not found", &types.ResourceNotFoundException{Message: aws.String("missing")}, false},
		{"invalid argument", &types.InvalidArgumentException{Message: aws.String("bad")}, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("put record batch: %w", context.DeadlineExceeded), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
