package cli

import "errors"

// Common CLI errors
var (
	ErrValidationFailed  = errors.New("one or more documents failed validation")
	ErrExpectationFailed = errors.New("response did not meet --expect")
	ErrNoInput           = errors.New("no input: pass a file, a glob pattern or - for stdin")
)
