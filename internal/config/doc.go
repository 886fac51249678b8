// Package config loads, normalizes, and validates codesnippet configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TESSERACT_CMD and TESSDATA_PREFIX. Both media utilities and snippetctl read
// their engine binaries, model selection, and logging preferences from here.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical engine names, and clear validation errors.
package config
