package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/accountworker/pkg/config"
	"github.com/dmitrymomot/accountworker/pkg/environment"
	"github.com/dmitrymomot/accountworker/pkg/logger"
)

// Store drivers accepted by STORE_DRIVER.
const (
	driverMemory   = "memory"
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
	driverRedis    = "redis"
	driverMongo    = "mongo"
)

type appConfig struct {
	Env             environment.Environment `env:"APP_ENV" envDefault:"development"`
	LogLevel        string                  `env:"LOG_LEVEL"`
	LogFormat       string                  `env:"LOG_FORMAT"`
	StoreDriver     string                  `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath      string                  `env:"SQLITE_PATH" envDefault:"accountworker.db"`
	PartitionLanes  int                     `env:"PARTITION_LANES" envDefault:"8"`
	PartitionBuffer int                     `env:"PARTITION_BUFFER" envDefault:"128"`
}

func (c appConfig) validate() error {
	switch c.StoreDriver {
	case driverMemory, driverPostgres, driverSQLite, driverRedis, driverMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch logger.Format(c.LogFormat) {
	case "", logger.FormatJSON, logger.FormatText, logger.FormatConsole:
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	if c.PartitionLanes < 1 {
		return fmt.Errorf("PARTITION_LANES must be positive, got %d", c.PartitionLanes)
	}
	return nil
}

func loadAppConfig() (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return appConfig{}, err
	}
	if err := cfg.validate(); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

func newLogger(cfg appConfig, w io.Writer) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "accountworker"),
		logger.WithOutput(w),
		logger.WithContextValue("run_id", runIDKey{}),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	if cfg.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	}
	return logger.New(opts...)
}

type runIDKey struct{}

type appKey struct{}

// app carries the resources built by the root Before hook.
type app struct {
	cfg appConfig
	log *slog.Logger
}

func appFrom(ctx context.Context) *app {
	if a, ok := ctx.Value(appKey{}).(*app); ok {
		return a
	}
	return &app{log: slog.Default()}
}
