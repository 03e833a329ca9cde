package repository

import (
	"context"
	"errors"

	"github.com/yashrajoria/aws-serverless-examples/services/task-service/models"
)

// ErrTaskNotFound is returned when no item has the requested taskId.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, taskID string) (*models.Task, error)
	// List returns up to limit tasks, only those with the given status when
	// status is non-empty. Order is unspecified.
	List(ctx context.Context, status string, limit int) ([]models.Task, error)
	// Update writes the non-nil fields of req and updatedAt, returning the new item.
	Update(ctx context.Context, taskID string, req *models.UpdateTaskRequest, updatedAt string) (*models.Task, error)
	Delete(ctx context.Context, taskID string) error
}
