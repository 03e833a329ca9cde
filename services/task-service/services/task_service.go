package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	apperrors "github.com/yashrajoria/aws-serverless-examples/pkg/common/errors"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/models"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/repository"
	"go.uber.org/zap"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// TaskService defines the task business logic. Every error it returns is an
// *apperrors.Error carrying the HTTP status and client message.
type TaskService interface {
	ListTasks(ctx context.Context, status, limit string) ([]models.Task, error)
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
	CreateTask(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID string, req *models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

type taskServiceImpl struct {
	repo    repository.TaskRepository
	metrics awspkg.MetricsRecorder
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo repository.TaskRepository, metrics awspkg.MetricsRecorder, logger *zap.Logger) TaskService {
	if metrics == nil {
		metrics = awspkg.NewDisabledMetricsClient()
	}
	return &taskServiceImpl{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// ParseLimit applies the list limit rules: default 50, at most 100, and
// anything that is not a positive integer falls back to the default.
func ParseLimit(raw string) int {
	if raw == "" {
		return DefaultListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return DefaultListLimit
	}
	if n > MaxListLimit {
		return MaxListLimit
	}
	return n
}

// ListTasks returns tasks newest first.
func (s *taskServiceImpl) ListTasks(ctx context.Context, status, limit string) ([]models.Task, error) {
	tasks, err := s.repo.List(ctx, status, ParseLimit(limit))
	if err != nil {
		s.logger.Error("Error getting all tasks", zap.Error(err))
		return nil, apperrors.Internal("Failed to retrieve tasks", err)
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt > tasks[j].CreatedAt })
	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, notFound(taskID)
		}
		s.logger.Error("Error getting task", zap.String("task_id", taskID), zap.Error(err))
		return nil, apperrors.Internal("Failed to retrieve task", err)
	}
	return task, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, req *models.CreateTaskRequest) (*models.Task, error) {
	if req.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}

	now := models.Timestamp(s.now())
	task := &models.Task{
		TaskID:      s.newID(),
		Title:       req.Title,
		Description: valueOr(req.Description, ""),
		Status:      valueOr(req.Status, models.StatusPending),
		Priority:    valueOr(req.Priority, models.PriorityMedium),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := models.ValidateStatus(task.Status); err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}
	if err := models.ValidatePriority(task.Priority); err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error("Error creating task", zap.Error(err))
		return nil, apperrors.Internal("Failed to create task", err)
	}

	s.logger.Info("Task created successfully", zap.String("task_id", task.TaskID))
	_ = s.metrics.RecordCount(ctx, awspkg.MetricTasksCreated, map[string]string{"Service": "task-service"})
	return task, nil
}

// UpdateTask reports a missing task before validating the body.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, taskID string, req *models.UpdateTaskRequest) (*models.Task, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := models.ValidateStatus(*req.Status); err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
	}
	if req.Priority != nil {
		if err := models.ValidatePriority(*req.Priority); err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
	}

	task, err := s.repo.Update(ctx, taskID, req, models.Timestamp(s.now()))
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, notFound(taskID)
		}
		s.logger.Error("Error updating task", zap.String("task_id", taskID), zap.Error(err))
		return nil, apperrors.Internal("Failed to update task", err)
	}

	s.logger.Info("Task updated successfully", zap.String("task_id", taskID))
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.repo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return notFound(taskID)
		}
		s.logger.Error("Error deleting task", zap.String("task_id", taskID), zap.Error(err))
		return apperrors.Internal("Failed to delete task", err)
	}

	s.logger.Info("Task deleted successfully", zap.String("task_id", taskID))
	_ = s.metrics.RecordCount(ctx, awspkg.MetricTasksDeleted, map[string]string{"Service": "task-service"})
	return nil
}

func notFound(taskID string) *apperrors.Error {
	return apperrors.NotFound(fmt.Sprintf("Task %s not found", taskID))
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
