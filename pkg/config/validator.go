package config

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/uniclear/clearance/pkg/credential"
	"github.com/uniclear/clearance/pkg/logging"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints. Credentials are not required here;
// Credential checks them when a call needs one.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{Field: fieldPath(fe), Message: "failed " + fe.Tag() + " rule"}
		}
		return &ValidationError{Field: "config", Message: err.Error()}
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error"}
	}

	if err := c.Audit.Validate(); err != nil {
		return &ValidationError{Field: "audit", Message: err.Error()}
	}
	return nil
}

// fieldPath turns "Config.logging.format" into "logging.format".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// RequireBaseURL returns ErrMissingBaseURL when no endpoint is configured.
func (c *Config) RequireBaseURL() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	return nil
}

// Credential builds the session credential. A zero SessionIssuedAt is
// treated as issued now.
func (c *Config) Credential() (credential.Credential, error) {
	issued := c.SessionIssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	return credential.NewAt(c.Username, c.SessionToken, issued)
}
