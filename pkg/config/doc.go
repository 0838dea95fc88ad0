// Package config provides a type-safe, generic and cached way to load
// application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11` to
// deliver a convenient API that:
//
//   - Loads values from the default `.env` file in the current working
//     directory, or from explicitly named files via LoadEnv.
//   - Parses the environment into any Go struct using field tags.
//   - Caches each successfully loaded configuration type so it is only
//     parsed once for the lifetime of the process.
//   - Exposes MustLoad, which panics on failure, for configuration the
//     process cannot start without.
//
// # Usage
//
//	import (
//	    "github.com/dmitrymomot/searchkit/pkg/config"
//	    "github.com/dmitrymomot/searchkit/pkg/elasticsearch"
//	)
//
//	var cfg elasticsearch.Config
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// # Error Handling
//
// Errors are wrapped in package sentinels; use errors.Is to distinguish a
// parse failure (ErrParsingConfig) from a missing named env file
// (ErrLoadingEnvFiles).
package config
