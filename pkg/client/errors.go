package client

import (
	"errors"
	"fmt"

	"github.com/uniclear/clearance/pkg/status"
)

// Stage names the step of a call that failed.
type Stage string

// Call stages, in pipeline order.
const (
	StageAuth      Stage = "auth"
	StageBuild     Stage = "build"
	StageValidate  Stage = "validate"
	StageTransport Stage = "transport"
	StageParse     Stage = "parse"
)

// CallError reports which stage of a call failed. The underlying error keeps
// its own type, so errors.As still finds *soap.BuildError,
// *credential.AuthenticationError and the rest.
type CallError struct {
	Operation string
	Stage     Stage
	Err       error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Operation, e.Stage, e.Err)
}

// Unwrap supports errors.Is and errors.As.
func (e *CallError) Unwrap() error { return e.Err }

// StageOf returns the failed stage when err is or wraps a CallError.
func StageOf(err error) (Stage, bool) {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Stage, true
	}
	return "", false
}

// TransportError reports an HTTP exchange that did not yield a usable
// response body.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("POST %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("POST %s: %v", e.URL, e.Err)
}

// Unwrap supports errors.Is and errors.As.
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a response whose status code is not a success code.
type StatusError struct {
	Operation   string
	IndexID     string
	Code        int
	Description string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: status %d: %s", e.Operation, e.Code, status.Message(e.Code))
	if e.Description != "" {
		msg += " (" + e.Description + ")"
	}
	return msg
}

// Classification classifies the status code.
func (e *StatusError) Classification() status.Classification {
	return status.Classify(e.Code)
}

// IsStatusError reports whether err is or wraps a StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
