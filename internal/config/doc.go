// Package config loads, normalizes, and validates iriverpla configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// IRIVERPLA_NTFY_TOPIC. The Config type centralizes every knob the CLI needs:
// where state and logs live, the default playlist settings applied to newly
// created playlists, notification delivery, and device monitoring.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, device-style music destinations, and clear validation
// errors.
package config
