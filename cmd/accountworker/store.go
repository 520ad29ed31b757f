package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/accountworker/pkg/config"
	"github.com/dmitrymomot/accountworker/pkg/mongo"
	"github.com/dmitrymomot/accountworker/pkg/pg"
	"github.com/dmitrymomot/accountworker/pkg/redis"
	"github.com/dmitrymomot/accountworker/svc/account"
	"github.com/dmitrymomot/accountworker/svc/account/storage/mongostore"
	"github.com/dmitrymomot/accountworker/svc/account/storage/pgstore"
	"github.com/dmitrymomot/accountworker/svc/account/storage/redisstore"
	"github.com/dmitrymomot/accountworker/svc/account/storage/sqlitestore"
)

// store is an opened repository together with its probe and release hooks.
type store struct {
	repo   account.Repository
	health func(context.Context) error
	close  func()
}

func noopHealth(context.Context) error { return nil }

// openStore connects the configured repository backend.
func openStore(ctx context.Context, cfg appConfig, log *slog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case driverMemory:
		return &store{repo: account.NewMemoryRepository(), health: noopHealth, close: func() {}}, nil

	case driverSQLite:
		s, err := sqlitestore.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &store{repo: s, health: s.Healthcheck, close: func() {
			if err := s.Close(); err != nil {
				log.Error("failed to close sqlite store", "error", err)
			}
		}}, nil

	case driverPostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		return &store{repo: pgstore.New(pool), health: pg.Healthcheck(pool), close: pool.Close}, nil

	case driverRedis:
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		return &store{
			repo:   redisstore.New(client, redisCfg.KeyPrefix),
			health: redis.Healthcheck(client),
			close: func() {
				if err := client.Close(); err != nil {
					log.Error("failed to close redis client", "error", err)
				}
			},
		}, nil

	case driverMongo:
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, mongoCfg)
		if err != nil {
			return nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil {
				log.Error("failed to disconnect mongo client", "error", err)
			}
		}
		s, err := mongostore.New(ctx, client.Database(mongoCfg.Database))
		if err != nil {
			closeFn()
			return nil, err
		}
		return &store{repo: s, health: mongo.Healthcheck(client), close: closeFn}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// openService opens the store and builds the account service on top of it.
// The caller must call the returned store's close hook.
func openService(ctx context.Context, a *app) (*account.Service, *store, error) {
	st, err := openStore(ctx, a.cfg, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", a.cfg.StoreDriver, err)
	}
	svc, err := account.NewService(st.repo, account.NewCommands(st.repo), account.WithLogger(a.log))
	if err != nil {
		st.close()
		return nil, nil, err
	}
	return svc, st, nil
}
