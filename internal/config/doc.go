// Package config loads, normalizes, and validates parley configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the PARLEY_TRANSPORT and
// PARLEY_LOG_LEVEL environment overrides. Derived locations such as the
// journal database, the session lock and the control socket all hang off
// paths.state_dir and are exposed as methods so callers never join paths
// themselves.
package config
