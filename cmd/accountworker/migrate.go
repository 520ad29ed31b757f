package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/accountworker/pkg/config"
	"github.com/dmitrymomot/accountworker/pkg/pg"
	"github.com/dmitrymomot/accountworker/svc/account/storage/pgstore"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Apply the PostgreSQL schema migrations",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		a := appFrom(ctx)

		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return fmt.Errorf("failed to load postgres config: %w", err)
		}

		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pgstore.Migrate(ctx, pool, cfg, a.log); err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.Root().Writer, "migrations applied")
		return err
	},
}
