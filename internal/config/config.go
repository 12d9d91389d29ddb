// Package config loads runtime settings from SNEAKERBOX_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "SNEAKERBOX"

// Storage backends.
const (
	StorageDB = "db"
	StorageS3 = "s3"
)

// Config holds every environment-driven setting. Variable names derive from
// the field path, e.g. Admin.Username reads SNEAKERBOX_ADMIN_USERNAME. Process-level settings
// (database path, listen address, log file) are flags instead.
type Config struct {
	Admin   AdminConfig
	Storage StorageConfig
	S3      S3Config
	Redis   RedisConfig
	Login   LoginConfig
	Preview PreviewConfig
	Quote   QuoteConfig
	Upload  UploadConfig
	Metrics MetricsConfig
}

// AdminConfig is the single admin account.
type AdminConfig struct {
	Username string `split_words:"true" default:"admin"`
	Password string `split_words:"true"`
}

// StorageConfig selects where photos go.
type StorageConfig struct {
	Backend string `split_words:"true" default:"db"`
}

// S3Config configures the S3 photo bucket.
type S3Config struct {
	Bucket    string `split_words:"true"`
	Region    string `split_words:"true" default:"us-east-1"`
	Endpoint  string `split_words:"true"`
	PublicURL string `split_words:"true"`
}

// RedisConfig points at the Redis server holding login counters. Empty
// means counters stay in memory.
type RedisConfig struct {
	URL string `split_words:"true"`
}

// LoginConfig throttles login attempts per client IP.
type LoginConfig struct {
	Window time.Duration `split_words:"true" default:"1m"`
	Limit  int           `split_words:"true" default:"10"`
	// TrustProxy keys the throttle on X-Real-IP/X-Forwarded-For. Only set it
	// behind a reverse proxy that overwrites those headers.
	TrustProxy bool `split_words:"true"`
}

// PreviewConfig controls the public collection preview.
type PreviewConfig struct {
	Size     int           `split_words:"true" default:"5"`
	Interval time.Duration `split_words:"true" default:"7s"`
}

// QuoteConfig controls the quote rotation.
type QuoteConfig struct {
	Interval time.Duration `split_words:"true" default:"7s"`
}

// UploadConfig limits photo and CSV uploads.
type UploadConfig struct {
	MaxBytes int64 `split_words:"true" default:"10485760"`
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `split_words:"true" default:"true"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageDB:
	case StorageS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("%s_S3_BUCKET is required for the s3 storage backend", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.Storage.Backend, StorageDB, StorageS3)
	}
	if c.Admin.Username == "" {
		return fmt.Errorf("%s_ADMIN_USERNAME must not be empty", EnvPrefix)
	}
	if c.Preview.Size <= 0 {
		return fmt.Errorf("%s_PREVIEW_SIZE must be positive", EnvPrefix)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("%s_UPLOAD_MAX_BYTES must be positive", EnvPrefix)
	}
	return nil
}
