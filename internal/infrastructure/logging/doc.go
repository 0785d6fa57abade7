// Package logging provides structured logging for the below importer.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across both binaries.
//
// # Features
//
//   - Text output for terminals (default; the importer is operator-driven)
//   - JSON output for machine consumption
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("dumping category", "category", "disk")
//	logger.Error("export failed", "error", err)
package logging
