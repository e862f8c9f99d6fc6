package response_models

type SavedPlanResponse struct {
	ID          string     `json:"id"`
	Destination string     `json:"destination"`
	Days        int        `json:"days"`
	GroupType   string     `json:"groupType"`
	BudgetType  string     `json:"budgetType"`
	Plan        TravelPlan `json:"plan"`
	PlaceNames  []string   `json:"place_names"`
	CreatedAt   string     `json:"created_at"`
}

type SavedPlanPage struct {
	Items    []SavedPlanResponse `json:"items"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Total    int64               `json:"total"`
}

type SavePlanResult struct {
	ID string `json:"id"`
}

type GeneratedPlanResponse struct {
	Plan   TravelPlan `json:"plan"`
	Cached bool       `json:"cached"`
}

type RefinedPlanResponse struct {
	Plan TravelPlan `json:"plan"`
}
