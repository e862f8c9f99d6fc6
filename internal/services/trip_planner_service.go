package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/logger"
	mem "wanderplan/pkg/memcache"
	"wanderplan/pkg/utils"
)

type TripPlannerServiceInterface interface {
	GeneratePlan(ctx context.Context, req request_models.TravelPlanRequest) (response_models.TravelPlan, bool, error)
	RefinePlan(ctx context.Context, req request_models.TravelPlanRequest, current response_models.TravelPlan, instruction string) (response_models.TravelPlan, error)
}

type TripPlannerService struct {
	generator  utils.PlanGenerator
	normalizer PlanNormalizerInterface
	cache      mem.PlanCacheStore
	timeout    time.Duration
	logger     *zap.Logger

	flights singleflight.Group
}

func NewTripPlannerService(
	generator utils.PlanGenerator,
	normalizer PlanNormalizerInterface,
	cache mem.PlanCacheStore,
	timeout time.Duration,
	log *zap.Logger,
) *TripPlannerService {
	return &TripPlannerService{
		generator:  generator,
		normalizer: normalizer,
		cache:      cache,
		timeout:    timeout,
		logger:     logger.OrNop(log),
	}
}

const planPromptTemplate = `Give a %d-day travel plan for a %s visiting %s on a %s budget. Return only raw JSON data without any code block or explanation.

Use this structure:
1. "hotels": [{ name, addr, price, img, coords, rating }]
2. "itinerary": [{ day, places: [{ name, desc (≤30 words), img, coords, ticket, rating, travel_time, best_time (≤30 words) }] }]

Use brief field names and keep content concise.`

const refineReminder = `Return the complete updated plan as raw JSON only, using the same "hotels" and "itinerary" structure.`

func BuildTravelPrompt(req request_models.TravelPlanRequest) string {
	return fmt.Sprintf(planPromptTemplate, req.Days, req.GroupType, req.Destination, req.BudgetType)
}

// GeneratePlan returns the cached plan for the request when there is one and
// otherwise generates, normalizes and caches a new plan. Concurrent calls for
// the same key share one generation. The bool reports a cache hit.
func (s *TripPlannerService) GeneratePlan(ctx context.Context, req request_models.TravelPlanRequest) (response_models.TravelPlan, bool, error) {
	if !req.Valid() {
		return response_models.TravelPlan{}, false, utils.ErrInvalidInput
	}

	key := mem.PlanCacheKey(req.Destination, req.Days, req.GroupType, req.BudgetType)
	if plan, ok := s.cache.Lookup(ctx, key); ok {
		s.logger.Debug("plan cache hit", zap.String("destination", req.Destination), zap.Int("days", req.Days))
		return plan, true, nil
	}

	ch := s.flights.DoChan(key, func() (interface{}, error) {
		// The flight outlives any single caller.
		flightCtx := context.WithoutCancel(ctx)
		if plan, ok := s.cache.Lookup(flightCtx, key); ok {
			return plan, nil
		}

		plan, err := s.generate(flightCtx, BuildTravelPrompt(req), nil)
		if err != nil {
			return nil, err
		}
		s.cache.Store(flightCtx, key, plan)
		s.logger.Info("travel plan generated",
			zap.String("destination", req.Destination),
			zap.Int("days", req.Days),
			zap.Int("hotels", len(plan.Hotels)),
			zap.Int("itinerary_days", len(plan.Itinerary)))
		return plan, nil
	})

	select {
	case <-ctx.Done():
		return response_models.TravelPlan{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return response_models.TravelPlan{}, false, res.Err
		}
		plan := res.Val.(response_models.TravelPlan)
		return plan.Clone(), false, nil
	}
}

// RefinePlan asks the generator to revise current as a follow-up turn. The
// result is not cached.
func (s *TripPlannerService) RefinePlan(ctx context.Context, req request_models.TravelPlanRequest, current response_models.TravelPlan, instruction string) (response_models.TravelPlan, error) {
	instruction = strings.TrimSpace(instruction)
	if !req.Valid() || instruction == "" {
		return response_models.TravelPlan{}, utils.ErrInvalidInput
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return response_models.TravelPlan{}, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}

	history := []utils.ChatMessage{
		{Role: "user", Content: BuildTravelPrompt(req)},
		{Role: "assistant", Content: string(currentJSON)},
	}
	return s.generate(ctx, instruction+"\n\n"+refineReminder, history)
}

func (s *TripPlannerService) generate(ctx context.Context, prompt string, history []utils.ChatMessage) (response_models.TravelPlan, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(ctx, prompt, history)
	if err != nil {
		s.logger.Error("plan generation failed", zap.Error(err))
		return response_models.TravelPlan{}, fmt.Errorf("%w: %w", utils.ErrTransport, err)
	}

	return s.normalizer.Normalize(raw)
}
