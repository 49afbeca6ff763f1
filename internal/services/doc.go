// Package services defines shared utilities consumed by the conversion
// pipeline and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp stage names and correlation identifiers for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is while users see a single readable message.
package services
