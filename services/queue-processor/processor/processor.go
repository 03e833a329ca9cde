package processor

import (
	"context"
	"encoding/json"

	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/logger"
	"go.uber.org/zap"
)

// Message is one queue message, independent of how it was received.
type Message struct {
	ID   string
	Body string
}

type ProcessedMessage struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

type FailedMessage struct {
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

type Details struct {
	ProcessedMessages []ProcessedMessage `json:"processed_messages"`
	FailedMessages    []FailedMessage    `json:"failed_messages"`
}

// Result reports the outcome of one batch.
type Result struct {
	Message   string  `json:"message"`
	Processed int     `json:"processed"`
	Failed    int     `json:"failed"`
	Details   Details `json:"details"`
}

// Processor classifies each message by payload shape and dispatches it.
type Processor struct {
	handlers Handlers
	metrics  awspkg.MetricsRecorder
	logger   *zap.Logger
}

func New(handlers Handlers, metrics awspkg.MetricsRecorder, logger *zap.Logger) *Processor {
	if metrics == nil {
		metrics = awspkg.NewDisabledMetricsClient()
	}
	return &Processor{handlers: handlers, metrics: metrics, logger: logger}
}

// ProcessBatch handles messages in order. A failing message is recorded and
// the batch continues; nothing is requeued here.
func (p *Processor) ProcessBatch(ctx context.Context, messages []Message) Result {
	batchLog := logger.For(ctx, p.logger)
	batchLog.Info("Received batch", zap.Int("records", len(messages)))

	res := Result{
		Message: "Batch processing completed",
		Details: Details{
			ProcessedMessages: []ProcessedMessage{},
			FailedMessages:    []FailedMessage{},
		},
	}

	for _, msg := range messages {
		log := batchLog.With(zap.String("message_id", msg.ID))
		log.Info("Processing message", zap.String("body", msg.Body))

		if err := p.dispatch(ctx, log, msg.Body); err != nil {
			log.Error("Failed to process message", zap.Error(err))
			res.Details.FailedMessages = append(res.Details.FailedMessages, FailedMessage{MessageID: msg.ID, Error: err.Error()})
			continue
		}
		res.Details.ProcessedMessages = append(res.Details.ProcessedMessages, ProcessedMessage{MessageID: msg.ID, Status: "processed"})
		log.Info("Successfully processed message")
	}

	res.Processed = len(res.Details.ProcessedMessages)
	res.Failed = len(res.Details.FailedMessages)
	batchLog.Info("Processing complete", zap.Int("successful", res.Processed), zap.Int("failed", res.Failed))

	dims := map[string]string{"Service": "queue-processor"}
	if res.Processed > 0 {
		_ = p.metrics.RecordValue(ctx, awspkg.MetricSQSMessages, float64(res.Processed), dims)
	}
	if res.Failed > 0 {
		_ = p.metrics.RecordValue(ctx, awspkg.MetricSQSMessagesFailed, float64(res.Failed), dims)
	}
	return res
}

func (p *Processor) dispatch(ctx context.Context, log *zap.Logger, body string) error {
	var parsed interface{}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		log.Info("Message is not JSON, processing as plain text")
		return p.handlers.Text(ctx, body)
	}

	obj, ok := parsed.(map[string]interface{})
	if !ok {
		log.Info("Processing non-object JSON message")
		return nil
	}

	switch {
	case has(obj, "orderId"):
		return p.handlers.Order(ctx, obj)
	case has(obj, "customerId"):
		return p.handlers.Customer(ctx, obj)
	default:
		return p.handlers.Generic(ctx, obj)
	}
}

func has(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}
