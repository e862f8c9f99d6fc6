package saved_plan_fx

import (
	"go.uber.org/fx"

	"wanderplan/internal/services"
)

var Module = fx.Provide(services.NewSavedPlanService)
