package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/internal/services"
	"wanderplan/pkg/middleware"
	"wanderplan/pkg/utils"
)

type SavedPlanController struct {
	savedPlanService services.SavedPlanServiceInterface
	printerService   services.ItineraryPrinterInterface
}

func NewSavedPlanController(
	savedPlanService services.SavedPlanServiceInterface,
	printerService services.ItineraryPrinterInterface,
) *SavedPlanController {
	return &SavedPlanController{
		savedPlanService: savedPlanService,
		printerService:   printerService,
	}
}

// SavePlan godoc
// @Summary Save a travel plan
// @Description Keep a generated plan for the authenticated user
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body request_models.SavePlanRequest true "Trip parameters and plan"
// @Success 200 {object} response_models.SavePlanResult
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans [post]
func (s *SavedPlanController) SavePlan(c *gin.Context) {
	var req request_models.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	id, err := s.savedPlanService.SavePlan(c.Request.Context(), c.GetString(middleware.UserIDKey), req.Request, req.Plan)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.SavePlanResult{ID: id}, "Trip saved successfully!")
}

// ListPlans godoc
// @Summary List saved plans
// @Description Fetch a paginated list of the authenticated user's saved plans, newest first
// @Tags Plans
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} response_models.SavedPlanPage
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans [get]
func (s *SavedPlanController) ListPlans(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPage)
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPageSize)
		return
	}

	plans, err := s.savedPlanService.ListPlans(c.Request.Context(), c.GetString(middleware.UserIDKey), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Saved plans fetched successfully")
}

// GetPlan godoc
// @Summary Get a saved plan
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response_models.SavedPlanResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId} [get]
func (s *SavedPlanController) GetPlan(c *gin.Context) {
	plan, err := s.savedPlanService.GetPlan(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("planId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Saved plan fetched successfully")
}

// FindSimilarPlans godoc
// @Summary Find saved plans for similar destinations
// @Tags Plans
// @Produce json
// @Param destination query string true "Destination"
// @Param limit query int false "Maximum results" default(5) maximum(20)
// @Success 200 {array} response_models.SavedPlanResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/similar [get]
func (s *SavedPlanController) FindSimilarPlans(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidInput)
		return
	}

	plans, err := s.savedPlanService.FindSimilarPlans(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Query("destination"), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Similar plans fetched successfully")
}

// PrintPlan godoc
// @Summary Print a saved plan
// @Tags Plans
// @Produce application/pdf
// @Param planId path string true "Plan ID"
// @Success 200 {file} file
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /plans/{planId}/print [get]
func (s *SavedPlanController) PrintPlan(c *gin.Context) {
	saved, err := s.savedPlanService.GetPlan(c.Request.Context(), c.GetString(middleware.UserIDKey), c.Param("planId"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	req := request_models.TravelPlanRequest{
		Destination: saved.Destination,
		Days:        saved.Days,
		GroupType:   saved.GroupType,
		BudgetType:  saved.BudgetType,
	}
	writePDF(c, s.printerService, req, saved.Plan)
}
