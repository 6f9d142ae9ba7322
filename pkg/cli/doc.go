// Package cli implements the clearance command line: status code lookup,
// offline build, parse and validate of SOAP documents, and live calls
// against the authority.
//
// Commands register themselves on rootCmd in their init functions. Every
// command honours --json; in JSON mode only the JSON result goes to stdout.
package cli
