package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Server  string // RESTREC_SERVER (optional, base URL of the REST API)
	Token   string // RESTREC_TOKEN (optional, empty = no auth header)
	NATSURL string // RESTREC_NATS_URL (optional, empty = no live events)

	Timeout time.Duration // RESTREC_TIMEOUT (default 30s)

	// Export settings
	ExportS3Bucket   string // RESTREC_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string // RESTREC_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string // RESTREC_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Key      string // RESTREC_EXPORT_S3_KEY (default "restrec/export.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		Server:           os.Getenv("RESTREC_SERVER"),
		Token:            os.Getenv("RESTREC_TOKEN"),
		NATSURL:          os.Getenv("RESTREC_NATS_URL"),
		ExportS3Bucket:   os.Getenv("RESTREC_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("RESTREC_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("RESTREC_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Key:      envOrDefault("RESTREC_EXPORT_S3_KEY", "restrec/export.jsonl"),
	}

	timeoutStr := envOrDefault("RESTREC_TIMEOUT", "30s")
	d, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("RESTREC_TIMEOUT: %w", err)
	}
	c.Timeout = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
