package config

import (
	"time"

	"github.com/uniclear/clearance/pkg/audit"
)

// Default values applied by Default.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

const redactedPlaceholder = "********"

// Config is the client configuration: where the authority lives, which
// session to use, and how to log and audit calls.
type Config struct {
	// BaseURL is the authority's SOAP endpoint. Required for remote calls
	// only.
	BaseURL string `yaml:"baseURL,omitempty" env:"CLEARANCE_BASE_URL" validate:"omitempty,url"`

	// Timeout bounds each HTTP round trip.
	Timeout time.Duration `yaml:"timeout,omitempty" env:"CLEARANCE_TIMEOUT,strict" validate:"gt=0"`

	// Username and SessionToken form the credential sent with every call.
	Username     string `yaml:"username,omitempty" env:"CLEARANCE_USERNAME"`
	SessionToken string `yaml:"sessionToken,omitempty" env:"CLEARANCE_SESSION_TOKEN"`

	// SessionIssuedAt is when the token was issued. Zero means now.
	SessionIssuedAt time.Time `yaml:"sessionIssuedAt,omitempty" env:"CLEARANCE_SESSION_ISSUED_AT"`

	// SessionTTL is the session lifetime. Zero means 24h.
	SessionTTL time.Duration `yaml:"sessionTTL,omitempty" env:"CLEARANCE_SESSION_TTL,strict" validate:"gte=0"`

	Logging LoggingConfig     `yaml:"logging"`
	Audit   audit.AuditConfig `yaml:"audit"`
}

// LoggingConfig selects the operator log output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" env:"CLEARANCE_LOG_LEVEL"`
	Format string `yaml:"format,omitempty" env:"CLEARANCE_LOG_FORMAT" validate:"omitempty,oneof=text json TEXT JSON"`

	// File additionally writes JSON logs to this path.
	File string `yaml:"file,omitempty" env:"CLEARANCE_LOG_FILE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Timeout: DefaultTimeout,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Audit: *audit.DefaultAuditConfig(),
	}
}

// Redacted returns a copy safe to print: the session token is masked.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.SessionToken != "" {
		cp.SessionToken = redactedPlaceholder
	}
	return &cp
}
