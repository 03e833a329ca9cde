package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Body is the response payload for the error, {"error": message}.
func (e *Error) Body() map[string]string {
	return map[string]string{"error": e.Message}
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

func MethodNotAllowed(method string) *Error {
	return New(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed", method), nil)
}

// Internal hides err behind a generic message; err stays reachable through Unwrap for logging.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// As converts any error into an *Error, mapping unknown errors to 500.
func As(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// ErrorMiddleware renders the last error attached with c.Error as JSON.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			appErr := As(c.Errors.Last().Err)
			c.AbortWithStatusJSON(appErr.Code, appErr.Body())
		}
	}
}

// Canned errors for the task API.
var (
	ErrInvalidJSON   = BadRequest("Invalid JSON in request body")
	ErrTitleRequired = BadRequest("title is required")
)
