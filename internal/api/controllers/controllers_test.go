package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/internal/services"
	"wanderplan/pkg/middleware"
	"wanderplan/pkg/utils"
)

type stubTripService struct {
	plan    response_models.TravelPlan
	cached  bool
	err     error
	lastReq request_models.TravelPlanRequest
	lastIns string
}

func (s *stubTripService) GeneratePlan(_ context.Context, req request_models.TravelPlanRequest) (response_models.TravelPlan, bool, error) {
	s.lastReq = req
	return s.plan, s.cached, s.err
}

func (s *stubTripService) RefinePlan(_ context.Context, req request_models.TravelPlanRequest, _ response_models.TravelPlan, instruction string) (response_models.TravelPlan, error) {
	s.lastReq, s.lastIns = req, instruction
	return s.plan, s.err
}

type stubImageService struct{}

func (stubImageService) FillMissingImages(_ context.Context, plan response_models.TravelPlan) response_models.TravelPlan {
	out := plan.Clone()
	for i := range out.Hotels {
		out.Hotels[i].Fields.SetText("image", "http://filled")
	}
	return out
}

type stubSavedPlanService struct {
	owner string
	saved response_models.SavedPlanResponse
	err   error
}

func (s *stubSavedPlanService) SavePlan(_ context.Context, ownerID string, _ request_models.TravelPlanRequest, _ response_models.TravelPlan) (string, error) {
	s.owner = ownerID
	return "plan-1", s.err
}

func (s *stubSavedPlanService) ListPlans(_ context.Context, ownerID string, page, pageSize int) (response_models.SavedPlanPage, error) {
	s.owner = ownerID
	if s.err != nil {
		return response_models.SavedPlanPage{}, s.err
	}
	return response_models.SavedPlanPage{Items: []response_models.SavedPlanResponse{s.saved}, Page: page, PageSize: pageSize, Total: 1}, nil
}

func (s *stubSavedPlanService) GetPlan(_ context.Context, ownerID, planID string) (response_models.SavedPlanResponse, error) {
	s.owner = ownerID
	if planID != s.saved.ID {
		return response_models.SavedPlanResponse{}, utils.ErrPlanNotFound
	}
	return s.saved, s.err
}

func (s *stubSavedPlanService) FindSimilarPlans(_ context.Context, ownerID, destination string, _ int) ([]response_models.SavedPlanResponse, error) {
	s.owner = ownerID
	if destination == "" {
		return nil, utils.ErrInvalidInput
	}
	return []response_models.SavedPlanResponse{s.saved}, s.err
}

func testPlan(t *testing.T) response_models.TravelPlan {
	t.Helper()
	plan, err := services.NewPlanNormalizer(nil).Normalize(response_models.TextResult(
		`{"hotels":[{"name":"Sea View","coords":[15.5,73.7],"rating":"4.2"}],"itinerary":[{"day":1,"places":[{"name":"Beach","coords":[15.6,73.8]},{"name":"Fort","coords":[15.4,73.9]}]}]}`))
	require.NoError(t, err)
	return plan
}

var testSecret = []byte("controller-secret")

func newTestRouter(trip *stubTripService, saved *stubSavedPlanService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())

	printer := services.NewItineraryPrinter()
	tc := NewTripController(trip, services.NewMapService(nil), stubImageService{}, printer, nil)
	sc := NewSavedPlanController(saved, printer)

	trips := r.Group("/trips", middleware.OptionalJWTMiddleware(testSecret))
	trips.POST("/generate", tc.GenerateTrip)
	trips.POST("/refine", tc.RefineTrip)
	trips.POST("/map-view", tc.MapView)
	trips.POST("/enrich-images", tc.EnrichImages)
	trips.POST("/print", tc.PrintTrip)

	plans := r.Group("/plans", middleware.JWTAuthMiddleware(testSecret))
	plans.POST("", sc.SavePlan)
	plans.GET("", sc.ListPlans)
	plans.GET("/similar", sc.FindSimilarPlans)
	plans.GET("/:planId", sc.GetPlan)
	plans.GET("/:planId/print", sc.PrintPlan)
	return r
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

func perform(t *testing.T, r http.Handler, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

const goaBody = `{"destination":"Goa","days":3,"groupType":"couple","budgetType":"budget"}`

func TestGenerateTrip(t *testing.T) {
	trip := &stubTripService{plan: testPlan(t), cached: true}
	r := newTestRouter(trip, &stubSavedPlanService{})

	w, env := perform(t, r, http.MethodPost, "/trips/generate", goaBody, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, env.TraceID)
	assert.Equal(t, "Goa", trip.lastReq.Destination)

	var data struct {
		Plan   response_models.TravelPlan `json:"plan"`
		Cached bool                       `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Cached)
	assert.Equal(t, 4.2, data.Plan.Hotels[0].Rating)
}

func TestGenerateTrip_BadRequest(t *testing.T) {
	r := newTestRouter(&stubTripService{}, &stubSavedPlanService{})

	bodies := []string{
		`{"destination":"Goa","days":3,"groupType":"couple"}`,
		`{"destination":"Goa","days":0,"groupType":"couple","budgetType":"budget"}`,
		`{"destination":"Goa","days":3,"groupType":"crowd","budgetType":"budget"}`,
		`not json`,
	}
	for _, body := range bodies {
		w, env := perform(t, r, http.MethodPost, "/trips/generate", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Please fill all the fields.", env.Message)
	}
}

func TestGenerateTrip_ServiceErrors(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{utils.ErrUnrecognizedPlan, http.StatusBadGateway, "The AI returned an unusable travel plan. Please try again."},
		{utils.ErrTransport, http.StatusBadGateway, "Error generating content. Please try again."},
		{utils.ErrInvalidInput, http.StatusBadRequest, "Invalid trip parameters"},
	}
	for _, tt := range tests {
		r := newTestRouter(&stubTripService{err: tt.err}, &stubSavedPlanService{})
		w, env := perform(t, r, http.MethodPost, "/trips/generate", goaBody, "")
		assert.Equal(t, tt.status, w.Code)
		assert.Equal(t, tt.message, env.Message)
	}
}

func TestRefineTrip(t *testing.T) {
	trip := &stubTripService{plan: testPlan(t)}
	r := newTestRouter(trip, &stubSavedPlanService{})

	body := map[string]any{
		"request":     json.RawMessage(goaBody),
		"plan":        testPlan(t),
		"instruction": "more beaches",
	}
	w, _ := perform(t, r, http.MethodPost, "/trips/refine", body, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "more beaches", trip.lastIns)

	delete(body, "instruction")
	w, _ = perform(t, r, http.MethodPost, "/trips/refine", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMapView(t *testing.T) {
	r := newTestRouter(&stubTripService{}, &stubSavedPlanService{})

	w, env := perform(t, r, http.MethodPost, "/trips/map-view", map[string]any{"plan": testPlan(t), "selected_day": 1}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var view response_models.MapView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Len(t, view.Markers, 3)
	assert.Len(t, view.Route, 2)
	assert.Equal(t, response_models.LatLng{Lat: 15.5, Lng: 73.7}, view.Center)
}

func TestEnrichImages(t *testing.T) {
	r := newTestRouter(&stubTripService{}, &stubSavedPlanService{})

	w, env := perform(t, r, http.MethodPost, "/trips/enrich-images", map[string]any{"plan": testPlan(t)}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var plan response_models.TravelPlan
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.Equal(t, "http://filled", plan.Hotels[0].Image())
}

func TestPrintTrip(t *testing.T) {
	r := newTestRouter(&stubTripService{}, &stubSavedPlanService{})

	body := map[string]any{"request": json.RawMessage(goaBody), "plan": testPlan(t)}
	w, _ := perform(t, r, http.MethodPost, "/trips/print", body, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="goa-itinerary.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestPDFFileName(t *testing.T) {
	assert.Equal(t, "new-york-itinerary.pdf", pdfFileName(" New York "))
	assert.Equal(t, "zrich-itinerary.pdf", pdfFileName("Zürich"))
	assert.Equal(t, "trip-itinerary.pdf", pdfFileName(`"..."`))
}

func TestSavedPlans_RequireAuth(t *testing.T) {
	r := newTestRouter(&stubTripService{}, &stubSavedPlanService{})

	w, env := perform(t, r, http.MethodPost, "/plans", map[string]any{"request": json.RawMessage(goaBody)}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Please log in to save your travel plan.", env.Message)

	w, _ = perform(t, r, http.MethodGet, "/plans", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSavedPlans(t *testing.T) {
	token, err := utils.CreateToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)

	saved := &stubSavedPlanService{saved: response_models.SavedPlanResponse{
		ID: "plan-1", Destination: "Goa", Days: 3, GroupType: "couple", BudgetType: "budget", Plan: testPlan(t),
	}}
	r := newTestRouter(&stubTripService{}, saved)

	w, env := perform(t, r, http.MethodPost, "/plans", map[string]any{"request": json.RawMessage(goaBody), "plan": testPlan(t)}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", saved.owner)
	assert.JSONEq(t, `{"id":"plan-1"}`, string(env.Data))

	w, env = perform(t, r, http.MethodGet, "/plans?page=2&pageSize=5", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var page response_models.SavedPlanPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)

	w, env = perform(t, r, http.MethodGet, "/plans?page=abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Page must be greater than 0", env.Message)

	w, _ = perform(t, r, http.MethodGet, "/plans/plan-1", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodGet, "/plans/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = perform(t, r, http.MethodGet, "/plans/similar?destination=goa", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodGet, "/plans/similar", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(t, r, http.MethodGet, "/plans/plan-1/print", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	saved.err = errors.New("db down")
	w, _ = perform(t, r, http.MethodGet, "/plans", nil, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
