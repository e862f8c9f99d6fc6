package db_fx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wanderplan/internal/infra"
	"wanderplan/internal/repositories"
	"wanderplan/pkg/config"
)

var Module = fx.Provide(provideSavedPlanRepository)

const connectTimeout = 10 * time.Second

// provideSavedPlanRepository opens the store named by PLAN_STORE and closes
// it on shutdown.
func provideSavedPlanRepository(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (repositories.ISavedPlanRepository, error) {
	switch strings.ToLower(cfg.PlanStore) {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		client, err := infra.InitMongo(ctx, cfg.MongoURL, log)
		if err != nil {
			return nil, err
		}
		repo := repositories.NewMongoSavedPlanRepository(client.Database(cfg.MongoDB))
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn("travelPlans index creation failed", zap.Error(err))
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				infra.CloseMongo(ctx, client, log)
				return nil
			},
		})
		return repo, nil

	case "postgres", "":
		db, err := infra.InitPostgresql(cfg.PostgresURL, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				infra.ClosePostgresql(db, log)
				return nil
			},
		})
		return repositories.NewSavedPlanRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported plan store: %s. Use 'postgres' or 'mongo'", cfg.PlanStore)
	}
}
