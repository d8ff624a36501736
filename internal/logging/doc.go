// Package logging provides structured logging utilities for the extractor.
//
// This package centralizes logging patterns so that every component emits the
// same attribute names, using the standard library's slog package.
//
// # Key Features
//
//   - Logger construction from the configured level and format
//   - Consistent attribute naming across the codebase
//   - Token masking so credentials never reach the log
//   - An adapter exposing slog through printf-style logger interfaces
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "export_csv")
//	logger.Info("export finished",
//	    logging.Count(n),
//	    logging.Path(path))
//
// # Security Considerations
//
// Message bodies and tokens are never logged. Queries are logged because
// they are needed to correlate failures with user requests.
package logging
