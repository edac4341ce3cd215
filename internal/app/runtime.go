package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bizerp/internal/config"
	"bizerp/internal/domain/reports"
	"bizerp/internal/infrastructure/cache"
	"bizerp/internal/infrastructure/storage/postgres"
	"bizerp/pkg/logger"
)

// Runtime owns the process-wide connections behind an App.
type Runtime struct {
	Config *config.Config
	Pool   *postgres.Pool
	Redis  *redis.Client
	Cache  *cache.ReportCache
	App    *App
}

// Open connects to PostgreSQL, optionally migrates it, connects to Redis
// when REDIS_ADDR is set and builds the App.
func Open(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DatabaseURL, postgres.MigrateUp); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	rt := &Runtime{Config: cfg, Pool: pool}

	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// Reports are computed on every request without Redis.
			logger.Warn(ctx, "redis unavailable, report cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			rt.Redis = client
		}
	}
	rt.Cache = cache.NewReportCache(rt.Redis, cfg.CacheTTL, reports.CacheNamespace)

	txm := postgres.NewTxManager(pool)
	rt.App = New(cfg, Deps{
		Querier:   postgres.NewContextQuerier(txm),
		TxManager: txm,
		Cache:     rt.Cache,
	})
	return rt, nil
}

// Close releases every connection.
func (r *Runtime) Close() {
	if r.Cache != nil {
		r.Cache.Stop()
	}
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
}
