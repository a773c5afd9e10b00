// Package config loads the process-level settings and the element
// configuration document the broker framework bootstraps from.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Env holds every setting read from the process environment. Required
// fields cause Load to fail fast; optional fields carry sensible defaults,
// mirroring the envconfig struct-tag convention used throughout this
// codebase family.
type Env struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"amqp-api"`
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"console"`

	// AMQPConnectionURI is the broker connection string. The framework also
	// accepts the legacy AMQP_API_CONNECTION_URI variable (§6 "Environment")
	// when AMQP_CONNECTION_URI is unset, for compatibility with deployments
	// still carrying the earlier configuration mode.
	AMQPConnectionURI    string `envconfig:"AMQP_CONNECTION_URI"`
	LegacyAMQPConnection string `envconfig:"AMQP_API_CONNECTION_URI"`

	// ElementsConfigPath points at the JSON document declaring input/output
	// elements (§6 "Configuration file").
	ElementsConfigPath string `envconfig:"ELEMENTS_CONFIG_PATH" default:"config/elements.json"`

	// JWKSURI is the OpenID Connect jwks_uri fetched once at startup (§4.1).
	JWKSURI string `envconfig:"JWKS_URI" required:"true"`
	// JWKSAudience and JWKSIssuers are comma-separated multi-valued sets.
	JWKSAudience string `envconfig:"JWKS_AUDIENCE" required:"true"`
	JWKSIssuers  string `envconfig:"JWKS_ISSUERS" required:"true"`

	AdminBindAddress string `envconfig:"ADMIN_BIND_ADDRESS" default:"127.0.0.1"`
	AdminPort        int    `envconfig:"ADMIN_PORT" default:"8081"`

	OTELEnabled          bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELExporterEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTELExporterInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`
}

// Load reads Env from the process environment and validates it.
func Load() (*Env, error) {
	const op = "config.Load"

	var cfg Env
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// Validate normalizes and checks Env. It is exported so that tests can
// construct an Env by hand and validate it without going through the
// environment.
func (e *Env) Validate() error {
	e.Env = strings.ToLower(strings.TrimSpace(e.Env))
	e.LogLevel = strings.ToLower(strings.TrimSpace(e.LogLevel))

	switch e.Env {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("invalid ENV: must be one of development, staging, production, test")
	}

	switch e.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL: must be one of debug, info, warn, error")
	}

	switch e.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: must be json or console")
	}

	if e.ConnectionURI() == "" {
		return fmt.Errorf("AMQP_CONNECTION_URI (or legacy AMQP_API_CONNECTION_URI) is required")
	}

	if strings.TrimSpace(e.JWKSURI) == "" {
		return fmt.Errorf("JWKS_URI is required")
	}
	if len(e.Audiences()) == 0 {
		return fmt.Errorf("JWKS_AUDIENCE must list at least one audience")
	}
	if len(e.Issuers()) == 0 {
		return fmt.Errorf("JWKS_ISSUERS must list at least one issuer")
	}

	if e.AdminPort < 0 || e.AdminPort > 65535 {
		return fmt.Errorf("invalid ADMIN_PORT: must be between 0 and 65535")
	}

	if e.OTELEnabled && strings.TrimSpace(e.OTELExporterEndpoint) == "" {
		return fmt.Errorf("OTEL_ENABLED is true but OTEL_EXPORTER_OTLP_ENDPOINT is empty")
	}

	return nil
}

// ConnectionURI returns the broker URI, preferring the current variable and
// falling back to the legacy one named in spec §6.
func (e *Env) ConnectionURI() string {
	if strings.TrimSpace(e.AMQPConnectionURI) != "" {
		return e.AMQPConnectionURI
	}
	return e.LegacyAMQPConnection
}

// Audiences returns the configured multi-valued audience set.
func (e *Env) Audiences() []string {
	return splitSet(e.JWKSAudience)
}

// Issuers returns the configured multi-valued issuer set.
func (e *Env) Issuers() []string {
	return splitSet(e.JWKSIssuers)
}

func splitSet(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Redacted returns a string representation of Env safe for logging.
func (e *Env) Redacted() string {
	safe := *e
	if safe.AMQPConnectionURI != "" {
		safe.AMQPConnectionURI = "[REDACTED]"
	}
	if safe.LegacyAMQPConnection != "" {
		safe.LegacyAMQPConnection = "[REDACTED]"
	}
	return fmt.Sprintf("%+v", safe)
}

// IsProduction returns true if running in the production environment.
func (e *Env) IsProduction() bool {
	return e.Env == "production"
}
