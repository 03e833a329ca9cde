package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	"github.com/yashrajoria/aws-serverless-examples/pkg/common/logger"
	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/pipeline"
	"go.uber.org/zap"
)

func main() {
	eventFile := flag.String("event", "", "process an S3 event JSON file locally instead of starting the Lambda runtime")
	flag.Parse()

	log := logger.Initialize(logger.Env())
	defer log.Sync()

	ctx := context.Background()

	// --- AWS setup ---
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	cfg, err := LoadConfig(ctx, awspkg.NewSecretsClient(awsCfg))
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}
	log.Info("Transform function configured",
		zap.String("firehose_stream", cfg.StreamName),
		zap.String("csv_suffix", cfg.CSVSuffix),
	)

	// --- Dependency injection ---
	fetcher := pipeline.NewFetcher(awspkg.NewObjectDownloader(awspkg.NewS3Client(awsCfg)))
	sink := pipeline.NewSink(awspkg.NewFirehoseClient(awsCfg), cfg.StreamName)
	p := pipeline.New(fetcher, sink, log,
		pipeline.WithSuffix(cfg.CSVSuffix),
		pipeline.WithMetrics(awspkg.NewMetricsClient(awsCfg)),
		pipeline.WithSummaryPublisher(pipeline.NewSummaryPublisher(awspkg.NewSNSClient(awsCfg), cfg.SummaryTopicARN)),
	)
	handler := NewHandler(p)

	if awspkg.InLambda() {
		lambda.Start(handler.Handle)
		return
	}

	if *eventFile == "" {
		log.Fatal("Not running in Lambda; pass -event <file> to process an S3 event locally")
	}
	resp, err := runLocal(ctx, handler, *eventFile)
	if err != nil {
		log.Fatal("Local run failed", zap.Error(err))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func runLocal(ctx context.Context, h *Handler, path string) (Response, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Response{}, err
	}
	var event events.S3Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return Response{}, err
	}
	return h.Handle(ctx, event)
}
