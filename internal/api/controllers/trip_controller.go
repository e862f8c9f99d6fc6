package controllers

import (
	"bytes"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/internal/services"
	"wanderplan/pkg/logger"
	"wanderplan/pkg/middleware"
	"wanderplan/pkg/utils"
)

type TripController struct {
	tripService    services.TripPlannerServiceInterface
	mapService     services.MapServiceInterface
	imageService   services.ImageEnrichmentServiceInterface
	printerService services.ItineraryPrinterInterface
	logger         *zap.Logger
}

func NewTripController(
	tripService services.TripPlannerServiceInterface,
	mapService services.MapServiceInterface,
	imageService services.ImageEnrichmentServiceInterface,
	printerService services.ItineraryPrinterInterface,
	log *zap.Logger,
) *TripController {
	return &TripController{
		tripService:    tripService,
		mapService:     mapService,
		imageService:   imageService,
		printerService: printerService,
		logger:         logger.OrNop(log),
	}
}

// GenerateTrip godoc
// @Summary Generate a travel plan
// @Description Generate hotels and a day-by-day itinerary for a destination. Identical requests are served from cache.
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.TravelPlanRequest true "Trip parameters"
// @Success 200 {object} response_models.GeneratedPlanResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /trips/generate [post]
func (t *TripController) GenerateTrip(c *gin.Context) {
	var req request_models.TravelPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Please fill all the fields.")
		return
	}

	t.logger.Info("trip generation requested",
		zap.String("trace_id", c.GetString("trace_id")),
		zap.String("user_id", c.GetString(middleware.UserIDKey)),
		zap.String("destination", req.Destination))

	plan, cached, err := t.tripService.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.GeneratedPlanResponse{Plan: plan, Cached: cached}, "Travel plan generated successfully")
}

// RefineTrip godoc
// @Summary Refine a travel plan
// @Description Ask the model to revise an existing plan with a follow-up instruction
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.RefinePlanRequest true "Plan and instruction"
// @Success 200 {object} response_models.RefinedPlanResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /trips/refine [post]
func (t *TripController) RefineTrip(c *gin.Context) {
	var req request_models.RefinePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, err := t.tripService.RefinePlan(c.Request.Context(), req.Request, req.Plan, req.Instruction)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.RefinedPlanResponse{Plan: plan}, "Travel plan refined successfully")
}

// MapView godoc
// @Summary Build the map view of a plan
// @Description Hotel markers, the selected day's place markers and its route
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.MapViewRequest true "Plan and selected day"
// @Success 200 {object} response_models.MapView
// @Failure 400 {object} utils.APIResponse
// @Router /trips/map-view [post]
func (t *TripController) MapView(c *gin.Context) {
	var req request_models.MapViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	utils.RespondSuccess(c, t.mapService.BuildMapView(req.Plan, req.SelectedDay), "Map view built successfully")
}

// EnrichImages godoc
// @Summary Fill missing images
// @Description Look up preview images for hotels and places that have none
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.EnrichImagesRequest true "Plan"
// @Success 200 {object} response_models.TravelPlan
// @Failure 400 {object} utils.APIResponse
// @Router /trips/enrich-images [post]
func (t *TripController) EnrichImages(c *gin.Context) {
	var req request_models.EnrichImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	utils.RespondSuccess(c, t.imageService.FillMissingImages(c.Request.Context(), req.Plan), "Images filled successfully")
}

// PrintTrip godoc
// @Summary Print a travel plan
// @Description Render the full itinerary as a PDF document
// @Tags Trip
// @Accept json
// @Produce application/pdf
// @Param request body request_models.PrintPlanRequest true "Trip parameters and plan"
// @Success 200 {file} file
// @Failure 400 {object} utils.APIResponse
// @Router /trips/print [post]
func (t *TripController) PrintTrip(c *gin.Context) {
	var req request_models.PrintPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	writePDF(c, t.printerService, req.Request, req.Plan)
}

func writePDF(c *gin.Context, printer services.ItineraryPrinterInterface, req request_models.TravelPlanRequest, plan response_models.TravelPlan) {
	var buf bytes.Buffer
	if err := printer.RenderPDF(&buf, req, plan); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+pdfFileName(req.Destination)+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func pdfFileName(destination string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return unicode.ToLower(r)
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, strings.TrimSpace(destination))
	if slug == "" {
		slug = "trip"
	}
	return slug + "-itinerary.pdf"
}
