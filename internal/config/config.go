// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"bizerp/internal/core/id"
	"bizerp/internal/core/numerator"
)

// Config holds runtime configuration for every binary.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"bizerp-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"30s"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	OrganizationID string `envconfig:"ORGANIZATION_ID" required:"true"`
	ReadOnlyMode   bool   `envconfig:"READ_ONLY_MODE" default:"false"`

	UploadDir      string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	UploadMaxWidth int    `envconfig:"UPLOAD_MAX_WIDTH" default:"1600"`
	UploadQuality  int    `envconfig:"UPLOAD_QUALITY" default:"80"`

	CORSOrigins       []string `envconfig:"CORS_ORIGINS" default:"*"`
	NumberingStrategy string   `envconfig:"NUMBERING_STRATEGY" default:"strict"`
	LoginRate         string   `envconfig:"LOGIN_RATE" default:"10-M"`

	SweepSchedule      string        `envconfig:"SWEEP_SCHEDULE" default:"@every 15m"`
	SweepGrace         time.Duration `envconfig:"SWEEP_GRACE" default:"10m"`
	StockAuditSchedule string        `envconfig:"STOCK_AUDIT_SCHEDULE" default:"@daily"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	if _, err := id.Parse(c.OrganizationID); err != nil {
		return fmt.Errorf("ORGANIZATION_ID: %w", err)
	}
	switch c.NumberingStrategy {
	case "strict", "scan", "scan_latest", "scan_max":
	default:
		return fmt.Errorf("NUMBERING_STRATEGY: unknown value %q", c.NumberingStrategy)
	}
	if c.UploadQuality < 1 || c.UploadQuality > 100 {
		return fmt.Errorf("UPLOAD_QUALITY: must be within 1..100, got %d", c.UploadQuality)
	}
	if c.UploadMaxWidth <= 0 {
		return fmt.Errorf("UPLOAD_MAX_WIDTH: must be positive, got %d", c.UploadMaxWidth)
	}
	return nil
}

// Organization returns the configured default organization.
func (c *Config) Organization() id.ID {
	orgID, _ := id.Parse(c.OrganizationID)
	return orgID
}

// Strategy maps NUMBERING_STRATEGY to a numerator strategy.
func (c *Config) Strategy() numerator.Strategy {
	return numerator.ParseStrategy(c.NumberingStrategy)
}

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}
