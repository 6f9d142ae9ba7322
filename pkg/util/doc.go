// Package util provides small string helpers shared by the audit trail and
// the client's diagnostics.
//
//   - TruncateBody caps XML bodies for safe logging
//   - Redact masks secrets such as session tokens before bodies are logged
package util
