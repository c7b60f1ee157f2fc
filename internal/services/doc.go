// Package services defines shared utilities consumed by the pipeline stages
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp stage names, session identifiers, and batch
//     entries for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     consistently for batch accounting and exit codes.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
