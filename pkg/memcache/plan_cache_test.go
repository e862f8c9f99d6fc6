package mem

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/internal/models/response_models"
)

func samplePlan(t *testing.T) response_models.TravelPlan {
	t.Helper()
	var plan response_models.TravelPlan
	require.NoError(t, json.Unmarshal([]byte(`{"hotels":[{"name":"Sea View","rating":4.2}],"itinerary":[{"day":1,"places":[{"name":"Beach","rating":0}]}]}`), &plan))
	return plan
}

func TestPlanCacheKey(t *testing.T) {
	a := PlanCacheKey("Goa", 3, "couple", "budget")
	assert.Equal(t, "Goa\x1f3\x1fcouple\x1fbudget", a)
	assert.NotEqual(t, a, PlanCacheKey("Goa", 3, "couple", "luxury"))
	assert.NotEqual(t, PlanCacheKey("Goa 3", 1, "solo", "budget"), PlanCacheKey("Goa", 31, "solo", "budget"))
	assert.Equal(t, a, PlanCacheKey("Goa", 3, "couple", "budget"))
}

func TestLocalPlanCache_StoreLookup(t *testing.T) {
	ctx := context.Background()
	cache := NewLocalPlanCache(4, 0)
	plan := samplePlan(t)

	_, ok := cache.Lookup(ctx, "missing")
	assert.False(t, ok)

	cache.Store(ctx, "k", plan)
	got, ok := cache.Lookup(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, plan, got)

	got.Hotels[0].Rating = 1
	again, _ := cache.Lookup(ctx, "k")
	assert.Equal(t, 4.2, again.Hotels[0].Rating)

	plan.Hotels[0].Rating = 2
	again, _ = cache.Lookup(ctx, "k")
	assert.Equal(t, 4.2, again.Hotels[0].Rating)
}

func TestLocalPlanCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	cache := NewLocalPlanCache(2, 0)
	plan := samplePlan(t)

	cache.Store(ctx, "a", plan)
	cache.Store(ctx, "b", plan)
	_, _ = cache.Lookup(ctx, "a")
	cache.Store(ctx, "c", plan)

	_, okA := cache.Lookup(ctx, "a")
	_, okB := cache.Lookup(ctx, "b")
	_, okC := cache.Lookup(ctx, "c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, cache.Len())
}

func TestLocalPlanCache_TTL(t *testing.T) {
	ctx := context.Background()
	cache := NewLocalPlanCache(4, 20*time.Millisecond)
	cache.Store(ctx, "k", samplePlan(t))

	require.Eventually(t, func() bool {
		_, ok := cache.Lookup(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func newRedisCache(t *testing.T) (*RedisPlanCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisPlanCache(client, time.Hour, nil), mr
}

func TestRedisPlanCache_StoreLookup(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)
	plan := samplePlan(t)

	_, ok := cache.Lookup(ctx, "k")
	assert.False(t, ok)

	cache.Store(ctx, "k", plan)
	assert.True(t, mr.Exists(redisKeyPrefix+"k"))
	assert.Equal(t, time.Hour, mr.TTL(redisKeyPrefix+"k"))

	got, ok := cache.Lookup(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, plan, got)
}

func TestRedisPlanCache_BackendErrorsAreMisses(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)

	require.NoError(t, mr.Set(redisKeyPrefix+"corrupt", "{not json"))
	_, ok := cache.Lookup(ctx, "corrupt")
	assert.False(t, ok)

	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = down.Close() })
	unreachable := NewRedisPlanCache(down, time.Hour, nil)
	_, ok = unreachable.Lookup(ctx, "k")
	assert.False(t, ok)
	unreachable.Store(ctx, "k", samplePlan(t))
}

func TestTieredPlanCache(t *testing.T) {
	ctx := context.Background()
	remote, _ := newRedisCache(t)
	plan := samplePlan(t)

	first := NewTieredPlanCache(NewLocalPlanCache(4, 0), remote)
	first.Store(ctx, "k", plan)

	local := NewLocalPlanCache(4, 0)
	second := NewTieredPlanCache(local, remote)
	got, ok := second.Lookup(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, plan, got)
	assert.Equal(t, 1, local.Len())

	_, ok = second.Lookup(ctx, "other")
	assert.False(t, ok)
}

func TestTieredPlanCache_WithoutRemote(t *testing.T) {
	local := NewLocalPlanCache(4, 0)
	assert.Same(t, local, NewTieredPlanCache(local, nil))
}
