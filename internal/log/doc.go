// Package log provides the application's logging setup, built on top of
// the standard slog package.
//
// This package extends slog to provide:
//   - Truncation of oversized attribute values (section text, raw HTML)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Truncation
//
// The TruncateHandler caps string attribute values at a fixed length.
// Crawl diagnostics naturally carry page-derived strings, and a statute
// section body can run to hundreds of kilobytes; without a cap a single
// warning could bury an entire run's log.
//
// # Usage
//
//	// Create a logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("section placeholder recorded",
//	    "section", "12",
//	    "text", fullText, // capped if oversized
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
