package audit

import (
	"strings"

	"github.com/uniclear/clearance/pkg/util"
)

// Level constants define the audit logging levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// DefaultMaxBodyPreviewSize is the preview limit used by DefaultAuditConfig.
const DefaultMaxBodyPreviewSize = 1024

// AuditConfig defines the configuration for the call audit trail.
type AuditConfig struct {
	// Enabled determines whether audit logging is active.
	Enabled bool `json:"enabled" yaml:"enabled" env:"CLEARANCE_AUDIT_ENABLED"`

	// Level controls the minimum severity of events to log.
	// Valid values: "debug", "info", "warn", "error".
	// Default: "info".
	Level string `json:"level,omitempty" yaml:"level,omitempty" env:"CLEARANCE_AUDIT_LEVEL"`

	// OutputFile is the path to the audit log file.
	// If empty and Enabled is true, entries are written to stdout.
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty" env:"CLEARANCE_AUDIT_FILE"`

	// Stdout also writes entries to stdout when OutputFile is set.
	Stdout bool `json:"stdout,omitempty" yaml:"stdout,omitempty" env:"CLEARANCE_AUDIT_STDOUT"`

	// MaxBodyPreviewSize limits the size of body previews in bytes.
	// Set to 0 to disable body previews.
	MaxBodyPreviewSize int `json:"maxBodyPreviewSize,omitempty" yaml:"maxBodyPreviewSize,omitempty" env:"CLEARANCE_AUDIT_PREVIEW_SIZE"`

	// KeepSecrets disables session token redaction in previews.
	KeepSecrets bool `json:"keepSecrets,omitempty" yaml:"keepSecrets,omitempty"`
}

// DefaultAuditConfig returns an AuditConfig with sensible defaults.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		Enabled:            false,
		Level:              LevelInfo,
		MaxBodyPreviewSize: DefaultMaxBodyPreviewSize,
	}
}

// Validate checks that the configuration is valid.
func (c *AuditConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch strings.ToLower(c.Level) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, "":
	default:
		return &ConfigError{Field: "level", Message: "must be one of: debug, info, warn, error"}
	}

	if c.MaxBodyPreviewSize < 0 {
		return &ConfigError{Field: "maxBodyPreviewSize", Message: "must not be negative"}
	}

	return nil
}

// ShouldLog returns true if the given level should be logged
// based on the configured minimum level.
func (c *AuditConfig) ShouldLog(level string) bool {
	if !c.Enabled {
		return false
	}

	return levelPriority(level) >= levelPriority(c.Level)
}

// Payload describes body for an entry: its size and, when previews are
// enabled, a truncated copy with secrets masked.
func (c *AuditConfig) Payload(body string, secrets ...string) *PayloadInfo {
	p := &PayloadInfo{Size: len(body)}
	if c.MaxBodyPreviewSize <= 0 {
		return p
	}
	if !c.KeepSecrets {
		body = util.Redact(body, secrets...)
	}
	p.Preview = util.TruncateBody(body, c.MaxBodyPreviewSize)
	return p
}

// levelPriority returns a numeric priority for a log level.
func levelPriority(level string) int {
	switch strings.ToLower(level) {
	case LevelDebug:
		return 0
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	default:
		return 1
	}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "audit config: " + e.Field + ": " + e.Message
}
