package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/aws/aws-sdk-go-v2/service/firehose/types"
)

// RecordPutter delivers one record to a Kinesis Data Firehose stream and
// returns the record id assigned by the service.
type RecordPutter interface {
	PutRecord(ctx context.Context, streamName string, data []byte) (string, error)
}

type firehoseAPI interface {
	PutRecord(ctx context.Context, params *firehose.PutRecordInput, optFns ...func(*firehose.Options)) (*firehose.PutRecordOutput, error)
}

// FirehoseClient wraps Kinesis Data Firehose PutRecord.
type FirehoseClient struct {
	client firehoseAPI
}

func NewFirehoseClient(cfg sdkaws.Config) *FirehoseClient {
	return &FirehoseClient{client: firehose.NewFromConfig(cfg)}
}

// PutRecord sends data as a single Firehose record.
func (f *FirehoseClient) PutRecord(ctx context.Context, streamName string, data []byte) (string, error) {
	if streamName == "" {
		return "", fmt.Errorf("empty delivery stream name")
	}
	out, err := f.client.PutRecord(ctx, &firehose.PutRecordInput{
		DeliveryStreamName: sdkaws.String(streamName),
		Record:             &types.Record{Data: data},
	})
	if err != nil {
		return "", fmt.Errorf("firehose put record to %s failed: %w", streamName, err)
	}
	return sdkaws.ToString(out.RecordId), nil
}
