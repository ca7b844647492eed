// Package config loads, normalizes, and validates sdtrack configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts) and reads TOML files. The Config type centralizes the naming
// prefixes, target layout, state directory and logging knobs the recorder
// needs, so every command sees the same resolved values.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, upper-cased prefixes, and clear validation errors.
package config
