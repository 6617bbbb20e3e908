// Package pg bootstraps a PostgreSQL connection pool on pgx/v5 and applies
// goose migrations through the same pool.
//
// # Usage
//
//	cfg := config.MustLoad[pg.Config]()
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
//		return err
//	}
//
//	health := pg.Healthcheck(pool)
//
// All configuration comes from environment variables; see the tags on Config.
// IsDuplicateKeyError and IsNotFoundError classify pgx errors for callers
// mapping them onto domain sentinels.
package pg
