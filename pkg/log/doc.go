// Package log captures elaboration events for busmap.
//
// This package defines the Logger interface and Event types for recording
// what an elaboration pass decided: every bound field, every remapped region,
// the resulting address map summary, interface connections and failures.
// It is separate from operational logging (slog) - elaboration capture
// provides a complete machine-readable trace for reviewing a generated map.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For build pipelines: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("build/regs.blog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured per elaboration stage:
//   - Layout: the flattened field list
//   - Bind: the interface chosen for each field (FieldEvent)
//   - Remap: the region table (RegionEvent)
//   - Connect: interface map connections (ConnectionEvent)
//
// Each pass ends with a SummaryEvent or an ErrorEventData.
//
// # File Format
//
// Log files use CBOR encoding with .blog extension. The busmap CLI "log"
// command provides viewing and filtering.
package log
