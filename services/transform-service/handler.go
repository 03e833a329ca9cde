package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/pipeline"
)

// Response is the value returned to the Lambda runtime.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Handler adapts the pipeline to the Lambda S3 trigger.
type Handler struct {
	pipeline *pipeline.Pipeline
}

func NewHandler(p *pipeline.Pipeline) *Handler {
	return &Handler{pipeline: p}
}

// Handle processes one S3 notification. Errors are returned only for a
// malformed notification so the trigger's retry and dead-letter policy apply.
func (h *Handler) Handle(ctx context.Context, event events.S3Event) (Response, error) {
	summary, err := h.pipeline.Process(ctx, event)
	if err != nil {
		return Response{}, err
	}

	body, err := json.Marshal(summary)
	if err != nil {
		return Response{}, fmt.Errorf("marshal summary: %w", err)
	}
	return Response{StatusCode: http.StatusOK, Body: string(body)}, nil
}
