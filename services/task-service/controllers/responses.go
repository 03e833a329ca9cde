package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yashrajoria/aws-serverless-examples/pkg/common/errors"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/models"
)

// Response bodies shared by the gin controller and the API Gateway handler.

func listBody(tasks []models.Task) gin.H {
	return gin.H{
		"tasks":   tasks,
		"count":   len(tasks),
		"message": fmt.Sprintf("Retrieved %d tasks", len(tasks)),
	}
}

func taskBody(task *models.Task, verb string) gin.H {
	return gin.H{
		"task":    task,
		"message": fmt.Sprintf("Task %s %s successfully", task.TaskID, verb),
	}
}

func deletedBody(taskID string) gin.H {
	return gin.H{"message": fmt.Sprintf("Task %s deleted successfully", taskID)}
}

// decodeBody unmarshals a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(raw []byte, v interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.ErrInvalidJSON
	}
	return nil
}
