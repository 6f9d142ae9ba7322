// Package logging provides structured logging configuration for the
// clearance client.
//
// This package wraps log/slog so the builder, parser, client and CLI log the
// same way. It supports configurable log levels and output formats.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("call completed", "operation", "CheckStatus", "status", 200)
//
// Several outputs can be combined:
//
//	logger := slog.New(logging.NewMultiHandler(
//	    logging.NewHandler(logging.Config{Output: os.Stderr}),
//	    logging.NewHandler(logging.Config{Output: file, Format: logging.FormatJSON}),
//	))
//
// # Integration
//
// Components accept a *slog.Logger through an option. If no logger is
// provided they use logging.Nop().
package logging
