package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/pipeline"
	"go.uber.org/zap"
)

type memObjects map[string]string

func (m memObjects) GetObjectBytes(_ context.Context, _, key string) ([]byte, error) {
	return []byte(m[key]), nil
}

type countingPutter struct{ n int }

func (c *countingPutter) PutRecord(context.Context, string, []byte) (string, error) {
	c.n++
	return "id", nil
}

func newTestHandler(objects memObjects, putter *countingPutter) *Handler {
	p := pipeline.New(pipeline.NewFetcher(objects), pipeline.NewSink(putter, "stream"), zap.NewNop())
	return NewHandler(p)
}

const sampleEvent = `{
  "Records": [
    {"eventSource": "aws:s3", "s3": {"bucket": {"name": "uploads"}, "object": {"key": "sales+2024.csv"}}},
    {"eventSource": "aws:s3", "s3": {"bucket": {"name": "uploads"}, "object": {"key": "readme.md"}}}
  ]
}`

func TestHandle_ReturnsSummaryBody(t *testing.T) {
	putter := &countingPutter{}
	h := newTestHandler(memObjects{"sales 2024.csv": "sku,qty\nA,1\nB,2\n"}, putter)

	var event events.S3Event
	require.NoError(t, json.Unmarshal([]byte(sampleEvent), &event))

	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 2, putter.n)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "Successfully processed CSV files", body["message"])
	assert.EqualValues(t, 2, body["processedFiles"])
	assert.EqualValues(t, 1, body["skippedFiles"])
	assert.EqualValues(t, 2, body["successfulRows"])
	assert.Equal(t, []interface{}{}, body["failures"])
}

func TestHandle_MalformedEventFails(t *testing.T) {
	h := newTestHandler(memObjects{}, &countingPutter{})
	_, err := h.Handle(context.Background(), events.S3Event{})
	assert.Error(t, err)
}

func TestRunLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleEvent), 0o600))

	putter := &countingPutter{}
	resp, err := runLocal(context.Background(), newTestHandler(memObjects{"sales 2024.csv": "a\n1\n"}, putter), path)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, putter.n)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("FIREHOSE_STREAM_NAME", "")
	t.Setenv("CSV_SUFFIX", "")
	t.Setenv("SUMMARY_SNS_TOPIC_ARN", "")
	t.Setenv("AWS_USE_SECRETS", "")

	cfg, err := LoadConfig(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "data-transformation-stream", cfg.StreamName)
	assert.Equal(t, ".csv", cfg.CSVSuffix)
	assert.Empty(t, cfg.SummaryTopicARN)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("FIREHOSE_STREAM_NAME", "orders-stream")
	t.Setenv("CSV_SUFFIX", ".CSV")
	t.Setenv("SUMMARY_SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:000000000000:summary")

	cfg, err := LoadConfig(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "orders-stream", cfg.StreamName)
	assert.Equal(t, ".CSV", cfg.CSVSuffix)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:summary", cfg.SummaryTopicARN)
}
