package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
	"github.com/yashrajoria/aws-serverless-examples/services/transform-service/pipeline"
)

// Config holds all configuration for the transform function.
type Config struct {
	StreamName string
	CSVSuffix  string
	// Optional topic that receives a summary of every processed notification.
	SummaryTopicARN string
	Env             string
}

// LoadConfig reads configuration from the environment (and a local .env file
// when present), with an optional Secrets Manager override.
func LoadConfig(ctx context.Context, secrets *awspkg.SecretsClient) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		StreamName:      getEnv("FIREHOSE_STREAM_NAME", "data-transformation-stream"),
		CSVSuffix:       getEnv("CSV_SUFFIX", pipeline.DefaultSuffix),
		SummaryTopicARN: os.Getenv("SUMMARY_SNS_TOPIC_ARN"),
		Env:             getEnv("APP_ENV", "development"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" && secrets != nil {
		secretName := getEnv("CONFIG_SECRET_NAME", "transform-service/config")
		err := secrets.ApplyOverrides(ctx, secretName, map[string]*string{
			"FIREHOSE_STREAM_NAME":  &cfg.StreamName,
			"SUMMARY_SNS_TOPIC_ARN": &cfg.SummaryTopicARN,
		})
		if err != nil {
			return nil, fmt.Errorf("load secret overrides: %w", err)
		}
	}

	if cfg.StreamName == "" {
		return nil, fmt.Errorf("FIREHOSE_STREAM_NAME must be configured")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
