package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSConsumer long-polls a queue and hands received batches to a handler.
type SQSConsumer struct {
	client   sqsAPI
	queueURL string
	logger   *zap.Logger
	// errBackoff is the pause after a failed poll.
	errBackoff time.Duration
}

// NewSQSConsumer creates a new SQS consumer for the given queue URL
func NewSQSConsumer(cfg aws.Config, queueURL string, logger *zap.Logger) *SQSConsumer {
	return newSQSConsumer(sqs.NewFromConfig(cfg), queueURL, logger)
}

func newSQSConsumer(client sqsAPI, queueURL string, logger *zap.Logger) *SQSConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQSConsumer{client: client, queueURL: queueURL, logger: logger, errBackoff: 5 * time.Second}
}

// BatchHandler processes one received batch and returns the ids of the
// messages that were handled and may be deleted.
type BatchHandler func(ctx context.Context, messages []types.Message) (handled []string)

// StartPolling polls until ctx is cancelled. After a failed poll it waits
// errBackoff before trying again.
func (c *SQSConsumer) StartPolling(ctx context.Context, handler BatchHandler) error {
	c.logger.Info("SQS polling started", zap.String("queue", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("SQS polling stopped")
			return ctx.Err()
		default:
			if err := c.PollOnce(ctx, handler); err != nil {
				c.logger.Error("SQS poll failed", zap.Error(err), zap.Duration("retry_in", c.errBackoff))
				select {
				case <-ctx.Done():
				case <-time.After(c.errBackoff):
				}
			}
		}
	}
}

// PollOnce receives up to ten messages and deletes those the handler reports as handled.
// Unhandled messages become visible again after the visibility timeout.
func (c *SQSConsumer) PollOnce(ctx context.Context, handler BatchHandler) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
		VisibilityTimeout:   30,
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}
	if len(result.Messages) == 0 {
		return nil
	}

	receipts := make(map[string]*string, len(result.Messages))
	for _, msg := range result.Messages {
		receipts[aws.ToString(msg.MessageId)] = msg.ReceiptHandle
	}

	for _, id := range handler(ctx, result.Messages) {
		handle, ok := receipts[id]
		if !ok {
			continue
		}
		if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(c.queueURL),
			ReceiptHandle: handle,
		}); err != nil {
			c.logger.Error("Failed to delete message", zap.String("message_id", id), zap.Error(err))
		}
	}

	return nil
}

// SendMessage sends a single message to the queue
func (c *SQSConsumer) SendMessage(ctx context.Context, body string) error {
	_, err := c.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
