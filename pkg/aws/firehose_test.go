package aws

import (
	"context"
	"errors"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/stretchr/testify/assert"
)

type fakeFirehose struct {
	inputs []*firehose.PutRecordInput
	err    error
}

func (f *fakeFirehose) PutRecord(_ context.Context, in *firehose.PutRecordInput, _ ...func(*firehose.Options)) (*firehose.PutRecordOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return &firehose.PutRecordOutput{RecordId: sdkaws.String("rec-1")}, nil
}

func TestFirehoseClient_PutRecord(t *testing.T) {
	api := &fakeFirehose{}
	fc := &FirehoseClient{client: api}

	id, err := fc.PutRecord(context.Background(), "data-transformation-stream", []byte("{}\n"))

	assert.NoError(t, err)
	assert.Equal(t, "rec-1", id)
	if assert.Len(t, api.inputs, 1) {
		assert.Equal(t, "data-transformation-stream", sdkaws.ToString(api.inputs[0].DeliveryStreamName))
		assert.Equal(t, []byte("{}\n"), api.inputs[0].Record.Data)
	}
}

func TestFirehoseClient_PutRecord_EmptyStream(t *testing.T) {
	api := &fakeFirehose{}
	fc := &FirehoseClient{client: api}

	_, err := fc.PutRecord(context.Background(), "", []byte("{}\n"))

	assert.Error(t, err)
	assert.Empty(t, api.inputs)
}

func TestFirehoseClient_PutRecord_WrapsServiceError(t *testing.T) {
	cause := errors.New("ServiceUnavailableException")
	fc := &FirehoseClient{client: &fakeFirehose{err: cause}}

	_, err := fc.PutRecord(context.Background(), "s", []byte("x"))

	assert.ErrorIs(t, err, cause)
}
