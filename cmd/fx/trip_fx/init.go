package trip_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wanderplan/internal/services"
	"wanderplan/pkg/config"
	mem "wanderplan/pkg/memcache"
	"wanderplan/pkg/utils"
)

var Module = fx.Provide(
	services.NewPlanNormalizer,
	provideTripPlannerService,
	services.NewMapService,
	provideImageEnrichmentService,
	services.NewItineraryPrinter)

func provideTripPlannerService(
	generator utils.PlanGenerator,
	normalizer services.PlanNormalizerInterface,
	cache mem.PlanCacheStore,
	cfg config.Config,
	log *zap.Logger,
) services.TripPlannerServiceInterface {
	return services.NewTripPlannerService(generator, normalizer, cache, cfg.GenerationTimeout, log)
}

func provideImageEnrichmentService(cfg config.Config, log *zap.Logger) services.ImageEnrichmentServiceInterface {
	if cfg.OpenTripMapAPIKey == "" {
		log.Info("OPENTRIPMAP_API_KEY not set, image enrichment disabled")
		return services.NewImageEnrichmentService(nil, log)
	}
	return services.NewImageEnrichmentService(utils.NewOpenTripMapClient(cfg.OpenTripMapAPIKey), log)
}
