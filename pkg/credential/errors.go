package credential

import (
	"errors"
	"fmt"
)

// ErrExpired is wrapped by AuthenticationError when a session has outlived
// its TTL.
var ErrExpired = errors.New("session expired")

// AuthenticationError reports an invalid, malformed or expired credential.
type AuthenticationError struct {
	// Field is the offending field ("username", "sessionToken"), or empty
	// when the error concerns the credential as a whole.
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	msg := "authentication: "
	if e.Field != "" {
		msg += e.Field + ": "
	}
	msg += e.Message
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap supports errors.Is and errors.As.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError reports whether err is or wraps an AuthenticationError.
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
