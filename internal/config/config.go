package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton for components that cannot take injected config.
var globalConfig *Config

// Config holds all environment backed configuration for coach-api.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Auth
	JWKSURL             string        `env:"JWKS_URL,notEmpty"`
	Issuer              string        `env:"ISSUER,notEmpty"`
	Audience            string        `env:"AUDIENCE,notEmpty"`
	RefreshJWKSInterval time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"5m"`
	AuthClockSkew       time.Duration `env:"AUTH_CLOCK_SKEW" envDefault:"30s"`

	// LLM Gateway
	GatewayBaseURL string        `env:"GATEWAY_BASE_URL,notEmpty"`
	GatewayAPIKey  string        `env:"GATEWAY_API_KEY"`
	GatewayModel   string        `env:"GATEWAY_MODEL" envDefault:"gpt-4o-mini"`
	GatewayTimeout time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"120s"`

	// Orchestration
	MaxToolIterations int `env:"MAX_TOOL_ITERATIONS" envDefault:"5"`

	// Billing
	BillingBaseURL string        `env:"BILLING_BASE_URL"`
	BillingTimeout time.Duration `env:"BILLING_TIMEOUT" envDefault:"5s"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"coach-api"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"fitcoach"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.JWKSURL); err != nil {
		return nil, fmt.Errorf("invalid JWKS_URL: %w", err)
	}
	if _, err := url.ParseRequestURI(cfg.GatewayBaseURL); err != nil {
		return nil, fmt.Errorf("invalid GATEWAY_BASE_URL: %w", err)
	}
	if cfg.BillingBaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.BillingBaseURL); err != nil {
			return nil, fmt.Errorf("invalid BILLING_BASE_URL: %w", err)
		}
	}
	if cfg.MaxToolIterations < 1 {
		return nil, errors.New("MAX_TOOL_ITERATIONS must be at least 1")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	globalConfig = cfg

	return cfg, nil
}

// GetGlobal returns the global config instance.
// Deprecated: Use dependency injection with Load() instead.
func GetGlobal() *Config {
	return globalConfig
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
