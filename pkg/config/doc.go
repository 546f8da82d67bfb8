// Package config loads configuration structs from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for parsing tagged structs and
// github.com/joho/godotenv for .env files. A Loader owns its own per-type
// cache, so nothing is shared between loaders and tests can build a fresh
// one or call Reset.
//
// # Usage
//
//	type CacheConfig struct {
//		MaxSize int  `env:"CACHE_MAX_SIZE" envDefault:"1000"`
//		Weak    bool `env:"CACHE_WEAK_VALUES"`
//	}
//
//	loader := config.NewLoader(config.WithEnvFiles(".env.local"))
//
//	var cfg CacheConfig
//	if err := config.Load(loader, &cfg); err != nil {
//		return err
//	}
//
// Without WithEnvFiles the loader reads ./.env if it exists. WithEnvironment
// swaps the process environment for a map, which keeps tests hermetic:
//
//	loader := config.NewLoader(config.WithEnvironment(map[string]string{
//		"CACHE_MAX_SIZE": "16",
//	}))
//
// # Errors
//
// Parsing failures are joined with ErrParsingConfig, unreadable .env files
// with ErrLoadingEnvFile. Use errors.Is to match them.
package config
