package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/logger"
	"github.com/yashrajoria/aws-serverless-examples/services/queue-processor/processor"
)

// Response is the value returned to the Lambda runtime.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type Handler struct {
	processor *processor.Processor
}

func NewHandler(p *processor.Processor) *Handler {
	return &Handler{processor: p}
}

// Handle processes an SQS-triggered batch. Per-message failures are reported
// in the body, never as an invocation error.
func (h *Handler) Handle(ctx context.Context, event events.SQSEvent) (Response, error) {
	msgs := make([]processor.Message, 0, len(event.Records))
	for _, rec := range event.Records {
		msgs = append(msgs, processor.Message{ID: rec.MessageId, Body: rec.Body})
	}

	body, err := json.Marshal(h.processor.ProcessBatch(ctx, msgs))
	if err != nil {
		return Response{}, fmt.Errorf("marshal result: %w", err)
	}
	return Response{StatusCode: http.StatusOK, Body: string(body)}, nil
}

// HandlePolled adapts the local long-poll consumer: it returns the ids of the
// messages that succeeded so only those are deleted from the queue.
func (h *Handler) HandlePolled(ctx context.Context, received []types.Message) []string {
	ctx = logger.WithContext(ctx, "poll-"+uuid.NewString())
	msgs := make([]processor.Message, 0, len(received))
	for _, m := range received {
		msgs = append(msgs, processor.Message{ID: aws.ToString(m.MessageId), Body: aws.ToString(m.Body)})
	}

	res := h.processor.ProcessBatch(ctx, msgs)
	handled := make([]string, 0, len(res.Details.ProcessedMessages))
	for _, pm := range res.Details.ProcessedMessages {
		handled = append(handled, pm.MessageID)
	}
	return handled
}
