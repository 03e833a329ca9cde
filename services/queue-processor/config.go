package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the queue processor.
type Config struct {
	// QueueURL is only used when polling locally; in Lambda the event source
	// mapping delivers the batches.
	QueueURL string
}

func LoadConfig() *Config {
	_ = godotenv.Load()
	return &Config{QueueURL: getEnv("SQS_QUEUE_URL", "")}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
