// pkg/memcache/plan_cache.go
package mem

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"wanderplan/internal/models/response_models"
)

type PlanCacheStore interface {
	// Lookup returns a copy of the plan stored under key, if any.
	Lookup(ctx context.Context, key string) (response_models.TravelPlan, bool)

	Store(ctx context.Context, key string, plan response_models.TravelPlan)
}

// LocalPlanCache is a bounded in-process cache with least-recently-used
// eviction. A zero ttl keeps entries until they are evicted for space.
type LocalPlanCache struct {
	lru *expirable.LRU[string, response_models.TravelPlan]
}

func NewLocalPlanCache(size int, ttl time.Duration) *LocalPlanCache {
	return &LocalPlanCache{
		lru: expirable.NewLRU[string, response_models.TravelPlan](size, nil, ttl),
	}
}

func (c *LocalPlanCache) Lookup(_ context.Context, key string) (response_models.TravelPlan, bool) {
	plan, ok := c.lru.Get(key)
	if !ok {
		return response_models.TravelPlan{}, false
	}
	return plan.Clone(), true
}

func (c *LocalPlanCache) Store(_ context.Context, key string, plan response_models.TravelPlan) {
	c.lru.Add(key, plan.Clone())
}

func (c *LocalPlanCache) Len() int { return c.lru.Len() }
