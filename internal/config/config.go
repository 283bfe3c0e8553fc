// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service configuration from PETSHOP_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"petshop-dev-secret-change-me-please",
}

// Storage backends.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"PETSHOP_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PETSHOP_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"PETSHOP_ENV" envDefault:"development"`
	LogLevel   string `env:"PETSHOP_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"PETSHOP_LOG_FORMAT" envDefault:"text"`

	DBDriver string `env:"PETSHOP_DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"PETSHOP_DB_DSN" envDefault:"./data/petshop.db"`

	JWTSecret string        `env:"PETSHOP_JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"PETSHOP_JWT_TTL" envDefault:"24h"`
	JWTIssuer string        `env:"PETSHOP_JWT_ISSUER" envDefault:"petshop"`

	// Admin account created on first start.
	AdminUsername string `env:"PETSHOP_ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"PETSHOP_ADMIN_EMAIL" envDefault:"admin@palyan.am"`
	AdminPassword string `env:"PETSHOP_ADMIN_PASSWORD" envDefault:"admin"`
	SeedDemo      bool   `env:"PETSHOP_SEED_DEMO" envDefault:"false"`

	Storage        string `env:"PETSHOP_STORAGE" envDefault:"local"`
	UploadsDir     string `env:"PETSHOP_UPLOADS_DIR" envDefault:"./uploads"`
	UploadsBaseURL string `env:"PETSHOP_UPLOADS_BASE_URL" envDefault:"/uploads"`
	MaxUploadMB    int    `env:"PETSHOP_MAX_UPLOAD_MB" envDefault:"10"`

	S3Bucket          string `env:"PETSHOP_S3_BUCKET"`
	S3Region          string `env:"PETSHOP_S3_REGION" envDefault:"us-east-1"`
	S3AccessKeyID     string `env:"PETSHOP_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"PETSHOP_S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"PETSHOP_S3_ENDPOINT"`   // MinIO and other S3-compatible services
	S3PublicURL       string `env:"PETSHOP_S3_PUBLIC_URL"` // CDN or bucket URL objects are served from
	S3UsePathStyle    bool   `env:"PETSHOP_S3_USE_PATH_STYLE" envDefault:"false"`

	CORSOrigins []string `env:"PETSHOP_CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	RateLimit     float64 `env:"PETSHOP_RATE_LIMIT" envDefault:"20"`
	RateBurst     int     `env:"PETSHOP_RATE_BURST" envDefault:"40"`
	AuthRateLimit float64 `env:"PETSHOP_AUTH_RATE_LIMIT" envDefault:"1"`
	AuthRateBurst int     `env:"PETSHOP_AUTH_RATE_BURST" envDefault:"10"`

	RequestTimeout  time.Duration `env:"PETSHOP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"PETSHOP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseS3 reports whether uploads go to object storage.
func (c Config) UseS3() bool {
	return c.Storage == StorageS3
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinJWTSecretLength is the minimum required length for the token secret.
// HS256 keys should be at least as long as the hash output.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("PETSHOP_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	if !cfg.IsDevelopment() && cfg.AdminPassword == "admin" {
		slog.Warn("PETSHOP_ADMIN_PASSWORD is the default; change the admin password after the first start")
	}

	return cfg, nil
}

// Validate checks settings that env tags cannot express. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("PETSHOP_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(c.JWTSecret)))
	}
	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			errs = append(errs, errors.New("PETSHOP_JWT_SECRET is a known default value and must not be used; "+
				"generate a secure secret with: openssl rand -base64 32"))
		}
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("PETSHOP_JWT_TTL must be positive"))
	}

	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Errorf("PETSHOP_DB_DRIVER must be sqlite or mysql, got %q", c.DBDriver))
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		errs = append(errs, errors.New("PETSHOP_DB_DSN must not be empty"))
	}

	switch c.Storage {
	case StorageLocal:
		if strings.TrimSpace(c.UploadsDir) == "" {
			errs = append(errs, errors.New("PETSHOP_UPLOADS_DIR must not be empty with local storage"))
		}
	case StorageS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("PETSHOP_S3_BUCKET is required with s3 storage"))
		}
		if c.S3Region == "" {
			errs = append(errs, errors.New("PETSHOP_S3_REGION is required with s3 storage"))
		}
		if (c.S3AccessKeyID == "") != (c.S3SecretAccessKey == "") {
			errs = append(errs, errors.New("PETSHOP_S3_ACCESS_KEY_ID and PETSHOP_S3_SECRET_ACCESS_KEY must be set together"))
		}
	default:
		errs = append(errs, fmt.Errorf("PETSHOP_STORAGE must be local or s3, got %q", c.Storage))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("PETSHOP_MAX_UPLOAD_MB must be positive"))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("PETSHOP_LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	if c.RateLimit <= 0 || c.RateBurst <= 0 || c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		errs = append(errs, errors.New("rate limits and bursts must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("PETSHOP_REQUEST_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
