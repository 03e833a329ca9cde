package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	apperrors "github.com/yashrajoria/aws-serverless-examples/pkg/common/errors"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/middleware"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/models"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/services"
	"go.uber.org/zap"
)

// APIGatewayHandler serves the task API behind an API Gateway proxy integration.
type APIGatewayHandler struct {
	taskService services.TaskService
	logger      *zap.Logger
}

func NewAPIGatewayHandler(taskService services.TaskService, logger *zap.Logger) *APIGatewayHandler {
	return &APIGatewayHandler{taskService: taskService, logger: logger}
}

// Handle routes on the HTTP method and the taskId path parameter. It never
// returns an error; failures become JSON error responses.
func (h *APIGatewayHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.logger.Info("Received request",
		zap.String("method", req.HTTPMethod),
		zap.String("path", req.Path),
		zap.String("request_id", req.RequestContext.RequestID),
	)

	taskID := req.PathParameters["taskId"]
	body := []byte(req.Body)
	if err := decodeBody(body, new(json.RawMessage)); err != nil {
		return h.fail(err), nil
	}

	switch req.HTTPMethod {
	case http.MethodOptions:
		return respond(http.StatusOK, map[string]string{}), nil

	case http.MethodGet:
		if taskID != "" {
			task, err := h.taskService.GetTask(ctx, taskID)
			if err != nil {
				return h.fail(err), nil
			}
			return respond(http.StatusOK, taskBody(task, "retrieved")), nil
		}
		tasks, err := h.taskService.ListTasks(ctx, req.QueryStringParameters["status"], req.QueryStringParameters["limit"])
		if err != nil {
			return h.fail(err), nil
		}
		return respond(http.StatusOK, listBody(tasks)), nil

	case http.MethodPost:
		var in models.CreateTaskRequest
		if err := decodeBody(body, &in); err != nil {
			return h.fail(err), nil
		}
		task, err := h.taskService.CreateTask(ctx, &in)
		if err != nil {
			return h.fail(err), nil
		}
		return respond(http.StatusCreated, taskBody(task, "created")), nil

	case http.MethodPut:
		if taskID == "" {
			return h.fail(apperrors.BadRequest("taskId is required for PUT requests")), nil
		}
		var in models.UpdateTaskRequest
		if err := decodeBody(body, &in); err != nil {
			return h.fail(err), nil
		}
		task, err := h.taskService.UpdateTask(ctx, taskID, &in)
		if err != nil {
			return h.fail(err), nil
		}
		return respond(http.StatusOK, taskBody(task, "updated")), nil

	case http.MethodDelete:
		if taskID == "" {
			return h.fail(apperrors.BadRequest("taskId is required for DELETE requests")), nil
		}
		if err := h.taskService.DeleteTask(ctx, taskID); err != nil {
			return h.fail(err), nil
		}
		return respond(http.StatusOK, deletedBody(taskID)), nil
	}

	return h.fail(apperrors.MethodNotAllowed(req.HTTPMethod)), nil
}

func (h *APIGatewayHandler) fail(err error) events.APIGatewayProxyResponse {
	appErr := apperrors.As(err)
	if appErr.Code >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}
	return respond(appErr.Code, appErr.Body())
}

func respond(status int, body interface{}) events.APIGatewayProxyResponse {
	headers := map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
	for k, v := range middleware.CORSHeaders {
		headers[k] = v
	}

	b, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		b = []byte(`{"error":"Internal server error"}`)
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers, Body: string(b)}
}
