package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	awspkg "github.com/yashrajoria/aws-serverless-examples/pkg/aws"
)

// Config holds all configuration for the task service.
type Config struct {
	Port           string
	TableName      string
	AllowedOrigins string
	// Requests per minute per client IP in server mode; 0 disables the limiter.
	RateLimit int
}

// LoadConfig reads configuration from environment variables with optional
// Secrets Manager override.
func LoadConfig(ctx context.Context, secrets *awspkg.SecretsClient) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		TableName:      getEnv("DDB_TABLE_TASKS", "Tasks"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}
	if _, err := fmt.Sscanf(getEnv("RATE_LIMIT_PER_MINUTE", "120"), "%d", &cfg.RateLimit); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" && secrets != nil {
		err := secrets.ApplyOverrides(ctx, getEnv("CONFIG_SECRET_NAME", "task-service/config"), map[string]*string{
			"DDB_TABLE_TASKS": &cfg.TableName,
			"ALLOWED_ORIGINS": &cfg.AllowedOrigins,
		})
		if err != nil {
			return nil, fmt.Errorf("load secret overrides: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
