// Package config provides application configuration loaded from
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration.
type Config struct {
	Env  string `env:"ENV" envDefault:"dev"`
	Port string `env:"PORT" envDefault:"8080"`

	// Comma-separated list of allowed CORS origins.
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	DatabaseURL string `env:"DATABASE_URL"`

	// Optional Redis URL for the refresh-token revocation store. When
	// empty, revocation falls back to an in-process store.
	RedisURL string `env:"REDIS_URL"`

	// Object store backend: local, s3 or minio.
	ObjectStoreType string `env:"OBJECT_STORE" envDefault:"local"`
	LocalStoreDir   string `env:"LOCAL_STORE_DIR" envDefault:"./data"`

	AWSRegion   string `env:"AWS_REGION"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Prefix    string `env:"S3_PREFIX"`
	SSEKMSKeyID string `env:"SSE_KMS_KEY_ID"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"portal-documents"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	SignedURLTTL    time.Duration `env:"SIGNED_URL_TTL" envDefault:"1h"`

	// Secret for HMAC-signing local download URLs. Falls back to
	// JWTSecret when empty.
	DownloadURLSecret string `env:"DOWNLOAD_URL_SECRET"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	// Where the browser lands after a successful sign-in.
	UIRedirectURL string `env:"UI_REDIRECT_URL" envDefault:"/dashboard"`

	// Directory of built SPA assets to serve; empty disables static serving.
	WebDistDir string `env:"WEB_DIST_DIR"`

	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)

	if cfg.IsProduction() {
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required in production")
		}
		if strings.TrimSpace(cfg.JWTSecret) == "" {
			return Config{}, fmt.Errorf("JWT_SECRET is required in production")
		}
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		cfg.JWTSecret = "dev-secret"
	}
	if strings.TrimSpace(cfg.DownloadURLSecret) == "" {
		cfg.DownloadURLSecret = cfg.JWTSecret
	}
	return cfg, nil
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevLike reports whether in-memory fallbacks are acceptable.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "minio":
		return "minio"
	default:
		return "local"
	}
}
