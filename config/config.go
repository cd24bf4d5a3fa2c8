// Package config loads runtime settings from the environment.
// File: config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server and CLI need.
type Config struct {
	Env            string
	Port           string
	ApplicationURL string
	SessionSecret  string
	LogDir         string

	DBDriver string // sqlite or postgres
	DBDSN    string

	UploadBackend    string // local or s3
	UploadDir        string
	S3Bucket         string
	S3Region         string
	S3PublicBaseURL  string
	StallBucket      string
	NominationBucket string

	MailTransport     string // smtp or resend
	SMTP              SMTPConfig
	ResendAPIKey      string
	MailFrom          string
	MailMaxAttempts   int
	MailRetryInterval time.Duration

	MetricsBackend string // prometheus, cloudwatch or none
	CORSOrigins    []string
	XRayEnabled    bool
}

// SMTPConfig mirrors the SMTP_* variables. Raw string values are kept so
// the mailer can report which ones are missing.
type SMTPConfig struct {
	Host   string
	Port   string
	Secure string
	User   string
	Pass   string
	From   string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		ApplicationURL: strings.TrimRight(getEnv("APPLICATION_URL", "http://localhost:8080"), "/"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		LogDir:         getEnv("LOG_DIR", "./logs"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DB_DSN", "foundersfest.db"),

		UploadBackend:    getEnv("UPLOAD_BACKEND", "local"),
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3Region:         getEnv("S3_REGION", "ap-south-1"),
		S3PublicBaseURL:  os.Getenv("S3_PUBLIC_BASE_URL"),
		StallBucket:      getEnv("STALL_BOOKINGS_BUCKET", "stall-bookings"),
		NominationBucket: getEnv("NOMINATIONS_BUCKET", "award-nominations"),

		MailTransport: getEnv("MAIL_TRANSPORT", "smtp"),
		SMTP: SMTPConfig{
			Host:   os.Getenv("SMTP_HOST"),
			Port:   os.Getenv("SMTP_PORT"),
			Secure: os.Getenv("SMTP_SECURE"),
			User:   os.Getenv("SMTP_USER"),
			Pass:   os.Getenv("SMTP_PASS"),
			From:   os.Getenv("SMTP_FROM"),
		},
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@foundersfest.com"),

		MetricsBackend: getEnv("METRICS_BACKEND", "prometheus"),
		CORSOrigins:    splitList(os.Getenv("CORS_ORIGINS")),
	}

	var err error
	if cfg.MailMaxAttempts, err = getInt("MAIL_MAX_ATTEMPTS", 1); err != nil {
		return nil, err
	}
	if cfg.MailRetryInterval, err = getDuration("MAIL_RETRY_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.XRayEnabled, err = getBool("XRAY_ENABLED", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations that would only fail later at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.IsProduction() && c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required in production"))
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, errors.New("DB_DRIVER must be sqlite or postgres"))
	}
	switch c.UploadBackend {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when UPLOAD_BACKEND=s3"))
		}
	default:
		errs = append(errs, errors.New("UPLOAD_BACKEND must be local or s3"))
	}
	switch c.MetricsBackend {
	case "prometheus", "cloudwatch", "none":
	default:
		errs = append(errs, errors.New("METRICS_BACKEND must be prometheus, cloudwatch or none"))
	}
	if c.MailMaxAttempts < 1 {
		errs = append(errs, errors.New("MAIL_MAX_ATTEMPTS must be at least 1"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SessionKey returns the cookie signing key, falling back to a fixed
// development key outside production.
func (c *Config) SessionKey() []byte {
	if c.SessionSecret == "" {
		return []byte("founders-fest-dev-secret")
	}
	return []byte(c.SessionSecret)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(key + " must be true or false")
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New(key + " must be a duration such as 30s or 5m")
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
