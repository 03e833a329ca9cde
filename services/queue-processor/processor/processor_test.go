package processor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yashrajoria/aws-serverless-examples/services/queue-processor/processor"
	"go.uber.org/zap"
)

// recordingHandlers records which handler saw each message.
type recordingHandlers struct {
	calls   []string
	failFor map[string]error
}

func (h *recordingHandlers) call(kind string) error {
	h.calls = append(h.calls, kind)
	return h.failFor[kind]
}

func (h *recordingHandlers) Order(context.Context, map[string]interface{}) error {
	return h.call("order")
}
func (h *recordingHandlers) Customer(context.Context, map[string]interface{}) error {
	return h.call("customer")
}
func (h *recordingHandlers) Generic(context.Context, map[string]interface{}) error {
	return h.call("generic")
}
func (h *recordingHandlers) Text(context.Context, string) error {
	return h.call("text")
}

func TestProcessBatch_ClassifiesByShape(t *testing.T) {
	h := &recordingHandlers{}
	p := processor.New(h, nil, zap.NewNop())

	res := p.ProcessBatch(context.Background(), []processor.Message{
		{ID: "1", Body: `{"orderId":"o-1","customerId":"c-1","total":99.5}`},
		{ID: "2", Body: `{"customerId":"c-2"}`},
		{ID: "3", Body: `{"event":"ping"}`},
		{ID: "4", Body: `hello world`},
		{ID: "5", Body: `[1,2,3]`},
	})

	assert.Equal(t, []string{"order", "customer", "generic", "text"}, h.calls)
	assert.Equal(t, 5, res.Processed)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, "Batch processing completed", res.Message)
	assert.Equal(t, processor.ProcessedMessage{MessageID: "5", Status: "processed"}, res.Details.ProcessedMessages[4])
	assert.Empty(t, res.Details.FailedMessages)
}

func TestProcessBatch_FailureIsPerMessage(t *testing.T) {
	h := &recordingHandlers{failFor: map[string]error{"customer": errors.New("customer store unavailable")}}
	p := processor.New(h, nil, zap.NewNop())

	res := p.ProcessBatch(context.Background(), []processor.Message{
		{ID: "a", Body: `{"orderId":1}`},
		{ID: "b", Body: `{"customerId":2}`},
		{ID: "c", Body: `plain`},
	})

	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []processor.FailedMessage{{MessageID: "b", Error: "customer store unavailable"}}, res.Details.FailedMessages)
	assert.Equal(t, "c", res.Details.ProcessedMessages[1].MessageID)
}

func TestProcessBatch_Empty(t *testing.T) {
	res := processor.New(&recordingHandlers{}, nil, zap.NewNop()).ProcessBatch(context.Background(), nil)
	assert.Equal(t, 0, res.Processed)
	assert.NotNil(t, res.Details.ProcessedMessages)
	assert.NotNil(t, res.Details.FailedMessages)
}

func TestLoggingHandlers_NeverFail(t *testing.T) {
	h := processor.LoggingHandlers{Logger: zap.NewNop()}
	ctx := context.Background()

	assert.NoError(t, h.Order(ctx, map[string]interface{}{"orderId": "o"}))
	assert.NoError(t, h.Customer(ctx, map[string]interface{}{}))
	assert.NoError(t, h.Generic(ctx, map[string]interface{}{"k": 1}))
	assert.NoError(t, h.Text(ctx, string(make([]byte, 300))))
}
