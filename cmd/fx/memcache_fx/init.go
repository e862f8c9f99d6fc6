package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wanderplan/internal/infra"
	"wanderplan/pkg/config"
	mem "wanderplan/pkg/memcache"
)

var Module = fx.Provide(providePlanCache)

const connectTimeout = 5 * time.Second

// providePlanCache always has the in-process tier; REDIS_URL adds a shared
// tier behind it.
func providePlanCache(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (mem.PlanCacheStore, error) {
	local := mem.NewLocalPlanCache(cfg.PlanCacheSize, cfg.PlanCacheTTL)
	if cfg.RedisURL == "" {
		return local, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	client, err := infra.InitRedis(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return client.Close() },
	})

	return mem.NewTieredPlanCache(local, mem.NewRedisPlanCache(client, cfg.RedisCacheTTL, log)), nil
}
