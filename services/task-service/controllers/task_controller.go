package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yashrajoria/aws-serverless-examples/pkg/common/errors"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/models"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/services"
)

// TaskController handles HTTP requests for task operations. Errors are
// attached with c.Error and rendered by apperrors.ErrorMiddleware.
type TaskController struct {
	taskService services.TaskService
}

// NewTaskController creates a new TaskController.
func NewTaskController(taskService services.TaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

// ListTasks handles GET /tasks?status=&limit=.
func (tc *TaskController) ListTasks(c *gin.Context) {
	tasks, err := tc.taskService.ListTasks(c.Request.Context(), c.Query("status"), c.Query("limit"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listBody(tasks))
}

// GetTask handles GET /tasks/:taskId.
func (tc *TaskController) GetTask(c *gin.Context) {
	task, err := tc.taskService.GetTask(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, taskBody(task, "retrieved"))
}

// CreateTask handles POST /tasks.
func (tc *TaskController) CreateTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := tc.bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	task, err := tc.taskService.CreateTask(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, taskBody(task, "created"))
}

// UpdateTask handles PUT /tasks/:taskId.
func (tc *TaskController) UpdateTask(c *gin.Context) {
	var req models.UpdateTaskRequest
	if err := tc.bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	task, err := tc.taskService.UpdateTask(c.Request.Context(), c.Param("taskId"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, taskBody(task, "updated"))
}

// DeleteTask handles DELETE /tasks/:taskId.
func (tc *TaskController) DeleteTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if err := tc.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, deletedBody(taskID))
}

// MissingTaskID answers PUT and DELETE on the collection.
func (tc *TaskController) MissingTaskID(c *gin.Context) {
	_ = c.Error(apperrors.BadRequest("taskId is required for " + c.Request.Method + " requests"))
}

// MethodNotAllowed is installed as the router's NoMethod handler.
func (tc *TaskController) MethodNotAllowed(c *gin.Context) {
	_ = c.Error(apperrors.MethodNotAllowed(c.Request.Method))
}

func (tc *TaskController) bind(c *gin.Context, v interface{}) error {
	raw, err := c.GetRawData()
	if err != nil {
		return apperrors.ErrInvalidJSON
	}
	return decodeBody(raw, v)
}
