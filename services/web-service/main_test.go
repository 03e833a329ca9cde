package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	return NewRouter(&Config{Port: 8080, ServiceName: "go-fargate-app"}, awspkg.NewDisabledMetricsClient(), zap.NewNop())
}

func TestIndex(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Hello from AWS Fargate!")
	assert.Contains(t, w.Body.String(), "Port: 8080")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]interface{}{"status": "healthy", "service": "go-fargate-app", "port": float64(8080)}, body)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVICE_NAME", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "go-fargate-app", cfg.ServiceName)

	t.Setenv("PORT", "9090")
	t.Setenv("SERVICE_NAME", "hello-web")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "hello-web", cfg.ServiceName)

	t.Setenv("PORT", "not-a-port")
	_, err = LoadConfig()
	assert.Error(t, err)
}
