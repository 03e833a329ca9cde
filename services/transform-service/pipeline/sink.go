package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/models"
)

// Sink writes normalized records to a Firehose delivery stream as
// newline-delimited JSON, one PutRecord per record.
type Sink struct {
	putter awspkg.RecordPutter
	stream string
}

func NewSink(putter awspkg.RecordPutter, stream string) *Sink {
	return &Sink{putter: putter, stream: stream}
}

// Stream returns the delivery stream name.
func (s *Sink) Stream() string {
	return s.stream
}

// Encode renders rec as a single JSON line ending in "\n".
func Encode(rec models.NormalizedRecord) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return append(b, '\n'), nil
}

// Deliver sends rec and returns the record id assigned by Firehose.
func (s *Sink) Deliver(ctx context.Context, rec models.NormalizedRecord) (string, error) {
	data, err := Encode(rec)
	if err != nil {
		return "", &DeliveryError{Stream: s.stream, Err: err}
	}
	id, err := s.putter.PutRecord(ctx, s.stream, data)
	if err != nil {
		return "", &DeliveryError{Stream: s.stream, Err: err}
	}
	return id, nil
}
