package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"
	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	apperrors "github.com/yashrajoria/aws-serverless-examples/pkg/common/errors"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/logger"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/middleware"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/controllers"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/repository"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/routes"
	"github.com/yashrajoria/aws-serverless-examples/services/task-service/services"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	log := logger.Initialize(logger.Env())

	// --- AWS setup ---
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	// Log shipping only applies to the container; Lambda forwards stdout itself.
	if !awspkg.InLambda() {
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, "task-service")
		if err != nil {
			log.Warn("CloudWatch logs init failed (non-fatal)", zap.Error(err))
		} else if cwLogs.IsEnabled() {
			log = logger.InitializeWithWriter(logger.Env(), cwLogs)
		}
	}
	defer log.Sync()

	cfg, err := LoadConfig(ctx, awspkg.NewSecretsClient(awsCfg))
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}

	// --- Dependency injection ---
	metricsClient := awspkg.NewMetricsClient(awsCfg)
	taskRepo := repository.NewDynamoTaskRepository(awspkg.NewDynamoDBClient(awsCfg), cfg.TableName)
	taskService := services.NewTaskService(taskRepo, metricsClient, log)

	if awspkg.InLambda() {
		lambda.Start(controllers.NewAPIGatewayHandler(taskService, log).Handle)
		return
	}

	r := NewRouter(cfg, controllers.NewTaskController(taskService), metricsClient, log)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Task Service started", zap.String("port", cfg.Port), zap.String("table", cfg.TableName))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	log.Info("Task Service stopped gracefully")
}

// NewRouter builds the gin engine used in server mode.
func NewRouter(cfg *Config, tc *controllers.TaskController, metrics awspkg.MetricsRecorder, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware(metrics, "task-service"))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimitMiddleware(cfg.RateLimit, cfg.RateLimit/2+1))
	}
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterTaskRoutes(r, tc)
	return r
}
