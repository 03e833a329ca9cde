package pipeline

import (
	"errors"
	"fmt"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// NotificationError means the trigger event itself is unusable. It fails the
// whole invocation and no summary is produced.
type NotificationError struct {
	Reason string
	Err    error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid notification: %s: %v", e.Reason, e.Err)
	}
	return "invalid notification: " + e.Reason
}

func (e *NotificationError) Unwrap() error { return e.Err }

// Fetch failure kinds.
const (
	FetchNotFound     = "not_found"
	FetchAccessDenied = "access_denied"
	FetchUnavailable  = "unavailable"
	FetchDecode       = "decode"
)

// FetchError means one object could not be read or decoded. The object is
// skipped and the rest of the notification continues.
type FetchError struct {
	Bucket string
	Key    string
	Kind   string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch s3://%s/%s (%s): %v", e.Bucket, e.Key, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RowTransformError is a decoded row that could not be normalized.
type RowTransformError struct {
	RowIndex int
	Err      error
}

func (e *RowTransformError) Error() string {
	return fmt.Sprintf("row %d: transform: %v", e.RowIndex, e.Err)
}

func (e *RowTransformError) Unwrap() error { return e.Err }

// DeliveryError is a normalized row the delivery stream rejected.
type DeliveryError struct {
	Stream string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.Stream, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

var errEmptyRecord = errors.New("record has no columns")

// classifyFetch maps an S3 error onto a FetchError kind.
func classifyFetch(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return FetchNotFound
		case "AccessDenied", "Forbidden", "AllAccessDisabled":
			return FetchAccessDenied
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return FetchNotFound
		case http.StatusForbidden:
			return FetchAccessDenied
		}
	}
	return FetchUnavailable
}
