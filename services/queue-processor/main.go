package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/logger"
	"github.com/yashrajoria/aws-serverless-examples/services/queue-processor/processor"
	"go.uber.org/zap"
)

func main() {
	send := flag.String("send", "", "send this message body to SQS_QUEUE_URL and exit")
	flag.Parse()

	log := logger.Initialize(logger.Env())
	defer log.Sync()

	cfg := LoadConfig()

	awsCfg, err := awspkg.LoadAWSConfig(context.Background())
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	p := processor.New(processor.LoggingHandlers{Logger: log}, awspkg.NewMetricsClient(awsCfg), log)
	handler := NewHandler(p)

	if awspkg.InLambda() {
		lambda.Start(handler.Handle)
		return
	}

	if cfg.QueueURL == "" {
		log.Fatal("SQS_QUEUE_URL is required outside Lambda")
	}
	consumer := awspkg.NewSQSConsumer(awsCfg, cfg.QueueURL, log)

	if *send != "" {
		if err := consumer.SendMessage(context.Background(), *send); err != nil {
			log.Fatal("Failed to send message", zap.Error(err))
		}
		log.Info("Message sent", zap.String("queue", cfg.QueueURL))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.StartPolling(ctx, handler.HandlePolled); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Polling stopped with error", zap.Error(err))
	}
	log.Info("Queue processor stopped gracefully")
}
