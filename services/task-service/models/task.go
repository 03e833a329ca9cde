package models

import (
	"fmt"
	"strings"
	"time"
)

// Task is one item of the Tasks table, keyed by TaskID.
type Task struct {
	TaskID      string `json:"taskId" dynamodbav:"taskId"`
	Title       string `json:"title" dynamodbav:"title"`
	Description string `json:"description" dynamodbav:"description"`
	Status      string `json:"status" dynamodbav:"status"`
	Priority    string `json:"priority" dynamodbav:"priority"`
	CreatedAt   string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   string `json:"updatedAt" dynamodbav:"updatedAt"`
}

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var (
	ValidStatuses   = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
	ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
)

// CreateTaskRequest is the POST /tasks body. Omitted fields take defaults.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// UpdateTaskRequest is the PUT /tasks/{taskId} body. Only fields present in
// the body are written.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// ValidateStatus returns a client-facing message when s is not a known status.
func ValidateStatus(s string) error {
	return validateEnum("status", s, ValidStatuses)
}

func ValidatePriority(p string) error {
	return validateEnum("priority", p, ValidPriorities)
}

func validateEnum(field, value string, allowed []string) error {
	for _, a := range allowed {
		if a == value {
			return nil
		}
	}
	return fmt.Errorf("Invalid %s. Must be one of: %s", field, strings.Join(allowed, ", "))
}

// Timestamp formats t as ISO-8601 UTC with a trailing Z.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}
