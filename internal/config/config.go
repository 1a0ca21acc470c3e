// Package config loads server configuration from an optional TOML file and
// FIELDGRID_* environment variables. Environment variables win.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DatabaseURL string // FIELDGRID_DATABASE_URL (required)
	HTTPAddr    string // FIELDGRID_HTTP_ADDR (default ":8080")
	NATSURL     string // FIELDGRID_NATS_URL (optional, empty = no events)
	AuthToken   string // FIELDGRID_AUTH_TOKEN (optional, empty = auth disabled)

	// Backup settings
	SyncInterval   time.Duration // FIELDGRID_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // FIELDGRID_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // FIELDGRID_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // FIELDGRID_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // FIELDGRID_SYNC_S3_KEY (default "fieldgrid/backup.jsonl")
}

// fileConfig mirrors Config for the optional TOML file named by
// FIELDGRID_CONFIG.
type fileConfig struct {
	DatabaseURL    string `toml:"database_url"`
	HTTPAddr       string `toml:"http_addr"`
	NATSURL        string `toml:"nats_url"`
	AuthToken      string `toml:"auth_token"`
	SyncInterval   string `toml:"sync_interval"`
	SyncS3Bucket   string `toml:"sync_s3_bucket"`
	SyncS3Endpoint string `toml:"sync_s3_endpoint"`
	SyncS3Region   string `toml:"sync_s3_region"`
	SyncS3Key      string `toml:"sync_s3_key"`
}

func Load() (*Config, error) {
	var fc fileConfig
	if path := os.Getenv("FIELDGRID_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	c := &Config{
		DatabaseURL:    firstOf(os.Getenv("FIELDGRID_DATABASE_URL"), fc.DatabaseURL),
		HTTPAddr:       firstOf(os.Getenv("FIELDGRID_HTTP_ADDR"), fc.HTTPAddr, ":8080"),
		NATSURL:        firstOf(os.Getenv("FIELDGRID_NATS_URL"), fc.NATSURL),
		AuthToken:      firstOf(os.Getenv("FIELDGRID_AUTH_TOKEN"), fc.AuthToken),
		SyncS3Bucket:   firstOf(os.Getenv("FIELDGRID_SYNC_S3_BUCKET"), fc.SyncS3Bucket),
		SyncS3Endpoint: firstOf(os.Getenv("FIELDGRID_SYNC_S3_ENDPOINT"), fc.SyncS3Endpoint),
		SyncS3Region:   firstOf(os.Getenv("FIELDGRID_SYNC_S3_REGION"), fc.SyncS3Region, "us-east-1"),
		SyncS3Key:      firstOf(os.Getenv("FIELDGRID_SYNC_S3_KEY"), fc.SyncS3Key, "fieldgrid/backup.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("FIELDGRID_DATABASE_URL is required")
	}

	intervalStr := firstOf(os.Getenv("FIELDGRID_SYNC_INTERVAL"), fc.SyncInterval, "3m")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("FIELDGRID_SYNC_INTERVAL: %w", err)
	}
	c.SyncInterval = d

	return c, nil
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
