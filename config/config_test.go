// file: config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("MAIL_MAX_ATTEMPTS", "")
	t.Setenv("MAIL_RETRY_INTERVAL", "")
	t.Setenv("APPLICATION_URL", "https://foundersfest.example/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 1, cfg.MailMaxAttempts)
	assert.Equal(t, time.Minute, cfg.MailRetryInterval)
	assert.Equal(t, "https://foundersfest.example", cfg.ApplicationURL, "trailing slash should be trimmed")
	assert.NotEmpty(t, cfg.SessionKey())
}

func TestLoad_ProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_InvalidNumbers(t *testing.T) {
	t.Setenv("MAIL_MAX_ATTEMPTS", "many")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAIL_MAX_ATTEMPTS")
}

func TestValidate_S3NeedsBucket(t *testing.T) {
	cfg := &Config{
		DBDriver:        "sqlite",
		UploadBackend:   "s3",
		MetricsBackend:  "none",
		MailMaxAttempts: 1,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")

	cfg.S3Bucket = "ff-uploads"
	assert.NoError(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitList(""))
}
