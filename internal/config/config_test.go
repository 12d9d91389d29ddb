package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, StorageDB, cfg.Storage.Backend)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, time.Minute, cfg.Login.Window)
	assert.Equal(t, 10, cfg.Login.Limit)
	assert.False(t, cfg.Login.TrustProxy)
	assert.Equal(t, 5, cfg.Preview.Size)
	assert.Equal(t, 7*time.Second, cfg.Preview.Interval)
	assert.Equal(t, 7*time.Second, cfg.Quote.Interval)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SNEAKERBOX_ADMIN_USERNAME", "tyler")
	t.Setenv("SNEAKERBOX_ADMIN_PASSWORD", "hunter2hunter2")
	t.Setenv("SNEAKERBOX_STORAGE_BACKEND", "s3")
	t.Setenv("SNEAKERBOX_S3_BUCKET", "kicks")
	t.Setenv("SNEAKERBOX_S3_ENDPOINT", "http://localhost:4566")
	t.Setenv("SNEAKERBOX_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SNEAKERBOX_PREVIEW_INTERVAL", "15s")
	t.Setenv("SNEAKERBOX_LOGIN_TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tyler", cfg.Admin.Username)
	assert.Equal(t, "hunter2hunter2", cfg.Admin.Password)
	assert.Equal(t, StorageS3, cfg.Storage.Backend)
	assert.Equal(t, "kicks", cfg.S3.Bucket)
	assert.Equal(t, "http://localhost:4566", cfg.S3.Endpoint)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 15*time.Second, cfg.Preview.Interval)
	assert.True(t, cfg.Login.TrustProxy)
}

func TestLoadRejectsS3WithoutBucket(t *testing.T) {
	t.Setenv("SNEAKERBOX_STORAGE_BACKEND", "s3")

	_, err := Load()
	assert.ErrorContains(t, err, "S3_BUCKET")
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SNEAKERBOX_STORAGE_BACKEND", "ftp")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("SNEAKERBOX_LOGIN_WINDOW", "soon")

	_, err := Load()
	assert.Error(t, err)
}
