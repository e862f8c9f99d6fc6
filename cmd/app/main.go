package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"wanderplan/cmd/fx/config_fx"
	"wanderplan/cmd/fx/controllers_fx"
	"wanderplan/cmd/fx/db_fx"
	"wanderplan/cmd/fx/memcache_fx"
	"wanderplan/cmd/fx/prompt_fx"
	"wanderplan/cmd/fx/saved_plan_fx"
	"wanderplan/cmd/fx/trip_fx"
	"wanderplan/internal/api/controllers"
	"wanderplan/pkg/config"
	"wanderplan/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		db_fx.Module,
		memcache_fx.Module,
		prompt_fx.Module,
		trip_fx.Module,
		saved_plan_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("Starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	tripController *controllers.TripController,
	savedPlanController *controllers.SavedPlanController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, []byte(cfg.JWTSecret), tripController, savedPlanController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	jwtSecret []byte,
	tripController *controllers.TripController,
	savedPlanController *controllers.SavedPlanController) {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tripGroup := r.Group("/trips", middleware.OptionalJWTMiddleware(jwtSecret))
	tripGroup.POST("/generate", tripController.GenerateTrip)
	tripGroup.POST("/refine", tripController.RefineTrip)
	tripGroup.POST("/map-view", tripController.MapView)
	tripGroup.POST("/enrich-images", tripController.EnrichImages)
	tripGroup.POST("/print", tripController.PrintTrip)

	planGroup := r.Group("/plans", middleware.JWTAuthMiddleware(jwtSecret))
	planGroup.POST("", savedPlanController.SavePlan)
	planGroup.GET("", savedPlanController.ListPlans)
	planGroup.GET("/similar", savedPlanController.FindSimilarPlans)
	planGroup.GET("/:planId", savedPlanController.GetPlan)
	planGroup.GET("/:planId/print", savedPlanController.PrintPlan)
}
