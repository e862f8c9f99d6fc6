package mem

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/logger"
)

const redisKeyPrefix = "wanderplan:plan:"

// RedisPlanCache shares generated plans between service instances. Backend
// errors are logged and read as misses.
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisPlanCache {
	return &RedisPlanCache{client: client, ttl: ttl, logger: logger.OrNop(log)}
}

func (c *RedisPlanCache) Lookup(ctx context.Context, key string) (response_models.TravelPlan, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis plan cache lookup failed", zap.Error(err))
		}
		return response_models.TravelPlan{}, false
	}

	var plan response_models.TravelPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		c.logger.Warn("redis plan cache entry is corrupt", zap.Error(err))
		return response_models.TravelPlan{}, false
	}
	return plan, true
}

func (c *RedisPlanCache) Store(ctx context.Context, key string, plan response_models.TravelPlan) {
	data, err := json.Marshal(plan)
	if err != nil {
		c.logger.Warn("redis plan cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis plan cache store failed", zap.Error(err))
	}
}

// TieredPlanCache reads the local tier first and back-fills it from the
// remote tier. Writes go to both.
type TieredPlanCache struct {
	local  PlanCacheStore
	remote PlanCacheStore
}

func NewTieredPlanCache(local, remote PlanCacheStore) PlanCacheStore {
	if remote == nil {
		return local
	}
	return &TieredPlanCache{local: local, remote: remote}
}

func (c *TieredPlanCache) Lookup(ctx context.Context, key string) (response_models.TravelPlan, bool) {
	if plan, ok := c.local.Lookup(ctx, key); ok {
		return plan, true
	}
	plan, ok := c.remote.Lookup(ctx, key)
	if !ok {
		return response_models.TravelPlan{}, false
	}
	c.local.Store(ctx, key, plan)
	return plan, true
}

func (c *TieredPlanCache) Store(ctx context.Context, key string, plan response_models.TravelPlan) {
	c.local.Store(ctx, key, plan)
	c.remote.Store(ctx, key, plan)
}
