package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
)

type fakeSQS struct {
	receiveErr error
	receives   int
	messages   []types.Message
	deleted    []string
	sent       []string
}

func (f *fakeSQS) ReceiveMessage(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.receives++
	if f.receiveErr != nil {
		return nil, f.receiveErr
	}
	return &sqs.ReceiveMessageOutput{Messages: f.messages}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, sdkaws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.sent = append(f.sent, sdkaws.ToString(in.MessageBody))
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSConsumer_PollOnce_DeletesHandledOnly(t *testing.T) {
	api := &fakeSQS{messages: []types.Message{
		{MessageId: sdkaws.String("m1"), ReceiptHandle: sdkaws.String("r1"), Body: sdkaws.String("a")},
		{MessageId: sdkaws.String("m2"), ReceiptHandle: sdkaws.String("r2"), Body: sdkaws.String("b")},
	}}
	c := newSQSConsumer(api, "http://localhost:4566/000000000000/q", nil)

	var seen int
	err := c.PollOnce(context.Background(), func(_ context.Context, msgs []types.Message) []string {
		seen = len(msgs)
		return []string{"m2", "unknown"}
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, seen)
	assert.Equal(t, []string{"r2"}, api.deleted)
}

func TestSQSConsumer_PollOnce_EmptyReceiveSkipsHandler(t *testing.T) {
	c := newSQSConsumer(&fakeSQS{}, "q", nil)

	called := false
	err := c.PollOnce(context.Background(), func(context.Context, []types.Message) []string {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestSQSConsumer_SendMessage(t *testing.T) {
	api := &fakeSQS{}
	c := newSQSConsumer(api, "q", nil)

	assert.NoError(t, c.SendMessage(context.Background(), `{"orderId":"1"}`))
	assert.Equal(t, []string{`{"orderId":"1"}`}, api.sent)
}

func TestSQSConsumer_StartPolling_BacksOffAfterReceiveError(t *testing.T) {
	api := &fakeSQS{receiveErr: errors.New("connection refused")}
	c := newSQSConsumer(api, "q", nil)
	c.errBackoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.StartPolling(ctx, func(context.Context, []types.Message) []string { return nil })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, api.receives)
	assert.Less(t, time.Since(start), time.Minute, "backoff must end when ctx is done")
}
