// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv (for .env files) and
// github.com/caarlos0/env/v11 (for struct parsing) and caches each parsed
// configuration type for the lifetime of the process.
//
// # Usage
//
//	type StoreConfig struct {
//	    Driver string `env:"STORE_DRIVER" envDefault:"memory"`
//	    Path   string `env:"SQLITE_PATH" envDefault:"accounts.db"`
//	}
//
//	if err := config.LoadEnv("./deploy/.env"); err != nil {
//	    return err
//	}
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Subsequent calls to Load for the same type are served from the cache.
// A failed parse is not cached, so Load can be retried once the environment
// is fixed. ResetCache clears everything between tests.
//
// # Error Handling
//
//   - ErrParsingConfig – failed to parse env vars into struct.
//   - ErrInvalidConfigType – the target is not a struct.
//   - ErrNilPointer – nil pointer passed to Load/MustLoad.
//   - ErrLoadingEnvFile – an explicit .env file could not be loaded.
package config
