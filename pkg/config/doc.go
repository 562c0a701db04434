// Package config provides configuration loading, validation, and access
// for Mercator Hermes.
//
// Configuration is loaded from a YAML file, merged with defaults, overridden
// by HERMES_* environment variables, and validated before use. The resulting
// Config is treated as immutable for the lifetime of a gateway server; the
// optional file watcher only reports on-disk drift, it never mutates a
// running configuration.
//
// Loading sequence:
//
//  1. Read and parse the YAML file.
//  2. Apply defaults for unset fields.
//  3. Apply environment variable overrides (HERMES_SECTION_FIELD).
//  4. Validate the final configuration.
//
// Example:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.NewServer(cfg)
package config
