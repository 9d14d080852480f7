// Package config loads, normalizes, and validates vismanifest configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and applies VISMANIFEST_* environment overrides. Input artifact
// locations, the style bible, prompt builder knobs, dispatch limits and log
// output are all discovered in one pass.
package config
