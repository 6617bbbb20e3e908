// Command sessiond serves the session lifecycle API over one of the
// supported stores.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dmitrymomot/authsession/internal/api"
	"github.com/dmitrymomot/authsession/pkg/clientip"
	"github.com/dmitrymomot/authsession/pkg/config"
	"github.com/dmitrymomot/authsession/pkg/cookie"
	"github.com/dmitrymomot/authsession/pkg/environment"
	"github.com/dmitrymomot/authsession/pkg/httpserver"
	"github.com/dmitrymomot/authsession/pkg/logger"
	"github.com/dmitrymomot/authsession/pkg/mongo"
	"github.com/dmitrymomot/authsession/pkg/pg"
	"github.com/dmitrymomot/authsession/pkg/redis"
	"github.com/dmitrymomot/authsession/pkg/requestid"
	"github.com/dmitrymomot/authsession/pkg/session"
	"github.com/dmitrymomot/authsession/pkg/session/mongostore"
	"github.com/dmitrymomot/authsession/pkg/session/pgstore"
	"github.com/dmitrymomot/authsession/pkg/session/redisstore"
)

const (
	backendMemory   = "memory"
	backendMongo    = "mongo"
	backendRedis    = "redis"
	backendPostgres = "postgres"
)

type storeConfig struct {
	Backend string `env:"SESSION_BACKEND" envDefault:"memory"`
	// Retention keeps expired records around before the backend purges them
	Retention  time.Duration `env:"SESSION_RETENTION" envDefault:"1h"`
	Collection string        `env:"MONGODB_SESSIONS_COLLECTION" envDefault:"sessions"`
	KeyPrefix  string        `env:"REDIS_SESSION_PREFIX" envDefault:"session:"`
}

type apiConfig struct {
	TrustProxy bool `env:"HTTP_TRUST_PROXY" envDefault:"false"`
}

type userStore = session.Store[session.UserContainer]

func main() {
	logCfg := config.MustLoad[logger.Config]()
	log := logger.NewFromConfig(logCfg, logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()))

	if err := run(context.Background(), log, environment.Parse(logCfg.Env)); err != nil {
		log.Error("sessiond stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, env environment.Environment) error {
	sessCfg := config.MustLoad[session.Config]()
	storeCfg := config.MustLoad[storeConfig]()

	store, checks, closeStore, err := openStore(ctx, log, storeCfg, sessCfg.CleanupInterval)
	if err != nil {
		return err
	}
	defer closeStore()

	mgr, err := session.NewFromConfig(sessCfg, store, cookie.NewFromConfig(config.MustLoad[cookie.Config]()),
		session.WithLogger(log),
		session.WithErrorHandler(api.ErrorHandler()),
	)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Sessions: mgr,
		Logger:   log,
		Env:      env,
		Checks:   checks,

		TrustProxy: config.MustLoad[apiConfig]().TrustProxy,
	})

	srv := httpserver.NewFromConfig(config.MustLoad[httpserver.Config](), httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}

// openStore connects the configured backend and returns the store, its
// readiness checks and a release func.
func openStore(ctx context.Context, log *slog.Logger, cfg storeConfig, cleanup time.Duration) (userStore, []httpserver.Check, func(), error) {
	log = log.With(logger.Backend(cfg.Backend))

	switch strings.ToLower(cfg.Backend) {
	case backendMemory:
		store := session.NewMemoryStore[session.UserContainer](cleanup)
		log.Info("session store ready")
		return store, nil, func() { _ = store.Close() }, nil

	case backendMongo:
		mongoCfg := config.MustLoad[mongo.Config]()
		db, err := mongo.NewWithDatabase(ctx, mongoCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		release := func() { _ = db.Client().Disconnect(context.Background()) }

		store := mongostore.New[session.UserContainer](db.Collection(cfg.Collection))
		if err := store.EnsureIndexes(ctx, cfg.Retention); err != nil {
			release()
			return nil, nil, nil, err
		}
		log.Info("session store ready", slog.String("collection", cfg.Collection))
		return store, []httpserver.Check{{Name: backendMongo, Fn: mongo.Healthcheck(db.Client())}}, release, nil

	case backendRedis:
		client, err := redis.Connect(ctx, config.MustLoad[redis.Config]())
		if err != nil {
			return nil, nil, nil, err
		}
		store := redisstore.New(client,
			redisstore.WithKeyPrefix[session.UserContainer](cfg.KeyPrefix),
			redisstore.WithRetention[session.UserContainer](cfg.Retention),
		)
		log.Info("session store ready", slog.String("prefix", cfg.KeyPrefix))
		return store, []httpserver.Check{{Name: backendRedis, Fn: redis.Healthcheck(client)}}, func() { _ = client.Close() }, nil

	case backendPostgres:
		pgCfg := config.MustLoad[pg.Config]()
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, pgCfg, log); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}

		store := pgstore.New[session.UserContainer](pool)
		stopPurge := purgeExpired(ctx, log, store, cleanup)
		log.Info("session store ready")
		release := func() {
			stopPurge()
			pool.Close()
		}
		return store, []httpserver.Check{{Name: backendPostgres, Fn: pg.Healthcheck(pool)}}, release, nil

	default:
		return nil, nil, nil, errors.Join(session.ErrNoStore, fmt.Errorf("unknown backend %q", cfg.Backend))
	}
}

// purgeExpired periodically removes expired rows; postgres has no native TTL.
func purgeExpired(ctx context.Context, log *slog.Logger, store *pgstore.Store[session.UserContainer], interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := store.DeleteExpired(ctx, now)
				if err != nil {
					log.ErrorContext(ctx, "expired session purge failed", logger.Error(err))
					continue
				}
				if n > 0 {
					log.DebugContext(ctx, "expired sessions purged", slog.Int64("count", n))
				}
			}
		}
	}()
	return cancel
}
