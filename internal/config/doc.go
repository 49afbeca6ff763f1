// Package config loads, normalizes, and validates Dialogger's TOML
// configuration.
//
// Load applies defaults, decodes the file when present, expands paths, applies
// environment overrides, and validates the result. CreateSample writes the
// embedded sample file used by `dialogger config init`.
package config
