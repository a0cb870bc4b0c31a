// Package encoder turns caller-supplied values into record payloads.
package encoder

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/getdelta/firehose-writer/internal/domain"
)

// Encode normalizes v into a record.
//
// Byte slices (including json.RawMessage) are copied as-is. Bare strings are
// rejected: the caller must choose an encoding explicitly. Any other value is
// encoded as JSON; map keys are sorted, so the output is deterministic.
func Encode(v any) (domain.Record, error) {
	switch t := v.(type) {
	case nil:
		return domain.Record{}, fmt.Errorf("%w: record is nil", domain.ErrInvalidArgument)
	case string:
		return domain.Record{}, fmt.Errorf("%w: string records must be encoded to []byte by the caller", domain.ErrInvalidArgument)
	case []byte:
		return raw(t)
	case json.RawMessage:
		return raw(t)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: encode %T: %v", domain.ErrInvalidArgument, v, err)
	}
	return domain.NewRecord(data), nil
}

func raw(b []byte) (domain.Record, error) {
	if b == nil {
		return domain.Record{}, fmt.Errorf("%w: record is nil", domain.ErrInvalidArgument)
	}
	return domain.NewRecord(bytes.Clone(b)), nil
}
