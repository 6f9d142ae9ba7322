// Package flags provides reusable flag types for CLI commands.
package flags

import "strings"

// StringSlice implements pflag.Value and pflag.SliceValue for repeatable
// string flags. Unlike pflag's stringSlice it never splits on commas, so
// values such as "Name=Doe, Jane" stay intact.
type StringSlice []string

// String returns the string representation of the flag value.
func (s *StringSlice) String() string {
	return strings.Join(*s, ",")
}

// Set appends a value to the slice.
func (s *StringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Type specifies the type label for Cobra flags.
func (s *StringSlice) Type() string {
	return "stringSlice"
}

// Append adds a value.
func (s *StringSlice) Append(value string) error {
	return s.Set(value)
}

// Replace swaps the whole slice.
func (s *StringSlice) Replace(values []string) error {
	*s = append((*s)[:0], values...)
	return nil
}

// GetSlice returns the values.
func (s *StringSlice) GetSlice() []string {
	return []string(*s)
}
