package request_models

import (
	"strings"
	"unicode"

	"wanderplan/internal/models/response_models"
)

type TravelPlanRequest struct {
	Destination string `json:"destination" binding:"required,max=120"`
	Days        int    `json:"days" binding:"required,min=1,max=30"`
	GroupType   string `json:"groupType" binding:"required,oneof=couple family solo friends"`
	BudgetType  string `json:"budgetType" binding:"required,oneof=budget moderate luxury"`
}

var (
	groupTypes  = map[string]bool{"couple": true, "family": true, "solo": true, "friends": true}
	budgetTypes = map[string]bool{"budget": true, "moderate": true, "luxury": true}
)

// Valid repeats the binding rules for callers that bypass gin, and also
// rejects control characters in the destination so the cache key join stays
// unambiguous.
func (r TravelPlanRequest) Valid() bool {
	if strings.TrimSpace(r.Destination) == "" || len(r.Destination) > 120 {
		return false
	}
	if strings.IndexFunc(r.Destination, unicode.IsControl) >= 0 {
		return false
	}
	if r.Days < 1 || r.Days > 30 {
		return false
	}
	return groupTypes[r.GroupType] && budgetTypes[r.BudgetType]
}

type MapViewRequest struct {
	Plan        response_models.TravelPlan `json:"plan"`
	SelectedDay int                        `json:"selected_day"`
}

type EnrichImagesRequest struct {
	Plan response_models.TravelPlan `json:"plan"`
}

type SavePlanRequest struct {
	Request TravelPlanRequest          `json:"request" binding:"required"`
	Plan    response_models.TravelPlan `json:"plan"`
}

type RefinePlanRequest struct {
	Request     TravelPlanRequest          `json:"request" binding:"required"`
	Plan        response_models.TravelPlan `json:"plan"`
	Instruction string                     `json:"instruction" binding:"required,max=500"`
}

type PrintPlanRequest struct {
	Request TravelPlanRequest          `json:"request" binding:"required"`
	Plan    response_models.TravelPlan `json:"plan"`
}
