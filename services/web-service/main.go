package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/logger"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/middleware"
	"github.com/yashrajoria/aws-serverless-examples/services/web-service/controllers"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	log := logger.Initialize(logger.Env())

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}

	// --- AWS setup ---
	metricsClient := awspkg.NewDisabledMetricsClient()
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		log.Warn("AWS config unavailable, running without CloudWatch", zap.Error(err))
	} else {
		metricsClient = awspkg.NewMetricsClient(awsCfg)
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.ServiceName)
		if err != nil {
			log.Warn("CloudWatch logs init failed (non-fatal)", zap.Error(err))
		} else if cwLogs.IsEnabled() {
			log = logger.InitializeWithWriter(logger.Env(), cwLogs)
		}
	}
	defer log.Sync()

	if logger.Env() == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := NewRouter(cfg, metricsClient, log)

	addr := ":" + strconv.Itoa(cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		log.Info("Web Service started", zap.String("addr", addr), zap.String("service", cfg.ServiceName))
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
	log.Info("Web Service stopped gracefully")
}

func NewRouter(cfg *Config, metrics awspkg.MetricsRecorder, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware(metrics, cfg.ServiceName))
	r.SetHTMLTemplate(controllers.IndexTemplate)

	pc := controllers.NewPageController(cfg.ServiceName, cfg.Port)
	r.GET("/", pc.Index)
	r.GET("/health", pc.Health)
	return r
}
