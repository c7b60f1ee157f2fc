// Package config loads, normalizes, and validates presser's TOML
// configuration. Load applies repository defaults, expands ~ in every path
// field, and rejects unusable values before any pipeline code runs.
package config
