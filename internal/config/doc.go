// Package config loads, normalizes, and validates voxreel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PEXELS_API_KEY (including a .env file in the working directory). The Config
// type centralizes every knob the CLI needs, so output/cache directories and
// provider credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical option values, and clear validation errors.
package config
