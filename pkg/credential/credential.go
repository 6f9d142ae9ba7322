package credential

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"

	"github.com/uniclear/clearance/pkg/value"
)

// Length limits for credential fields, counted in characters.
const (
	MinUsernameLength     = 1
	MaxUsernameLength     = 50
	MinSessionTokenLength = 10
	MaxSessionTokenLength = 255
)

// DefaultTTL is the session lifetime used when a caller passes ttl <= 0.
const DefaultTTL = 24 * time.Hour

// Element names of the auth fragment.
const (
	UsernameElement     = "Username"
	SessionTokenElement = "SessionToken"
)

// fields carries the validation rules. The limits above must match the tags.
type fields struct {
	Username     string `json:"username" validate:"required,min=1,max=50"`
	SessionToken string `json:"sessionToken" validate:"required,min=10,max=255"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Credential is an authenticated session: a username and the session token
// the clearance authority issued for it. A Credential is immutable; expiry
// is computed from CreatedAt on every check.
type Credential struct {
	username     string
	sessionToken string
	createdAt    time.Time
}

// New validates username and sessionToken and returns a Credential created
// now.
func New(username, sessionToken string) (Credential, error) {
	return NewAt(username, sessionToken, time.Now())
}

// NewAt is like New but records createdAt instead of the current time. Use it
// to restore a session that was issued earlier.
func NewAt(username, sessionToken string, createdAt time.Time) (Credential, error) {
	if err := check(username, sessionToken); err != nil {
		return Credential{}, err
	}
	return Credential{
		username:     username,
		sessionToken: sessionToken,
		createdAt:    createdAt.UTC(),
	}, nil
}

// Validate re-checks the field invariants. The zero Credential is invalid.
func (c Credential) Validate() error {
	return check(c.username, c.sessionToken)
}

func check(username, sessionToken string) error {
	err := validate.Struct(fields{Username: username, SessionToken: sessionToken})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &AuthenticationError{Message: "invalid credential", Err: err}
	}

	fe := verrs[0]
	return &AuthenticationError{
		Field:   fe.Field(),
		Message: ruleMessage(fe),
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}

// Username returns the account name.
func (c Credential) Username() string { return c.username }

// SessionToken returns the session token.
func (c Credential) SessionToken() string { return c.sessionToken }

// CreatedAt returns when the session was issued, in UTC.
func (c Credential) CreatedAt() time.Time { return c.createdAt }

// IsExpired reports whether the session is older than ttl at the current
// time. A ttl <= 0 means DefaultTTL.
func (c Credential) IsExpired(ttl time.Duration) bool {
	return c.IsExpiredAt(time.Now(), ttl)
}

// IsExpiredAt reports whether the session is older than ttl at now.
func (c Credential) IsExpiredAt(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return now.After(c.createdAt.Add(ttl))
}

// ExpiresAt returns the instant after which the session is expired.
func (c Credential) ExpiresAt(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.createdAt.Add(ttl)
}

// CheckExpiry returns an AuthenticationError wrapping ErrExpired when the
// session is expired at now.
func (c Credential) CheckExpiry(now time.Time, ttl time.Duration) error {
	if !c.IsExpiredAt(now, ttl) {
		return nil
	}
	return &AuthenticationError{
		Message: fmt.Sprintf("session for %q expired at %s", c.username, c.ExpiresAt(ttl).Format(time.RFC3339)),
		Err:     ErrExpired,
	}
}

// AuthFragment returns the auth block as a value tree:
// {Username, SessionToken}. Values are escaped when serialized.
func (c Credential) AuthFragment() value.Value {
	return value.FromMap(value.NewMap().
		SetText(UsernameElement, c.username).
		SetText(SessionTokenElement, c.sessionToken))
}

// Fingerprint returns a deterministic, non-cryptographic hash of the
// username and session token, for cache keys and log correlation.
func (c Credential) Fingerprint() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(c.username+c.sessionToken))
}

// String identifies the credential without revealing the token.
func (c Credential) String() string {
	return c.username + "@" + c.Fingerprint()
}
