// Package config loads, normalizes, and validates pybundle's TOML
// configuration. It owns path expansion rules and the locations of the
// engine's lock file and history database so other packages never
// reconstruct them by hand.
package config
