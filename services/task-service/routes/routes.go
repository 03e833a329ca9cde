package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/controllers"
)

// RegisterTaskRoutes sets up all task routes plus the 405 handler.
func RegisterTaskRoutes(r *gin.Engine, tc *controllers.TaskController) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(tc.MethodNotAllowed)

	taskRoutes := r.Group("/tasks")
	taskRoutes.GET("", tc.ListTasks)
	taskRoutes.POST("", tc.CreateTask)
	taskRoutes.PUT("", tc.MissingTaskID)
	taskRoutes.DELETE("", tc.MissingTaskID)
	taskRoutes.GET("/:taskId", tc.GetTask)
	taskRoutes.PUT("/:taskId", tc.UpdateTask)
	taskRoutes.DELETE("/:taskId", tc.DeleteTask)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "task-service"})
	})
}
