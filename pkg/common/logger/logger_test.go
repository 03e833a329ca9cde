package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	assert.Equal(t, "unknown", RequestID(context.Background()))

	lambdaCtx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "aws-req-1"})
	assert.Equal(t, "aws-req-1", RequestID(lambdaCtx))

	// An explicit id wins over the invocation id.
	assert.Equal(t, "explicit", RequestID(WithContext(lambdaCtx, "explicit")))
}

func TestEnv(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	t.Setenv("APP_ENV", "")
	assert.Equal(t, "development", Env())

	t.Setenv("APP_ENV", "staging")
	assert.Equal(t, "staging", Env())

	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "csv-transform")
	assert.Equal(t, "production", Env())
}

func TestInitializeWithWriter_TeesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := InitializeWithWriter("production", &buf)
	t.Cleanup(func() { Log = l })

	For(WithContext(context.Background(), "req-42"), l).Info("hello")

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Contains(t, entry, "timestamp")
}
