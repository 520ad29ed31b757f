// Package pg provides PostgreSQL helpers on top of pgx/v5: an env-driven
// Config, Connect with retries, a readiness Healthcheck, goose-based Migrate
// that accepts embedded migration files, and error classifiers for
// *pgconn.PgError.
//
// # Usage
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, slog.Default()); err != nil {
//	    return err
//	}
package pg
