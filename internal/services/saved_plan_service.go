package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"wanderplan/internal/models/db_models"
	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
	"wanderplan/internal/repositories"
	"wanderplan/pkg/logger"
	"wanderplan/pkg/utils"
)

const (
	defaultSimilarLimit = 5
	maxSimilarLimit     = 20
)

type SavedPlanServiceInterface interface {
	SavePlan(ctx context.Context, ownerID string, req request_models.TravelPlanRequest, plan response_models.TravelPlan) (string, error)
	ListPlans(ctx context.Context, ownerID string, page, pageSize int) (response_models.SavedPlanPage, error)
	GetPlan(ctx context.Context, ownerID, planID string) (response_models.SavedPlanResponse, error)
	FindSimilarPlans(ctx context.Context, ownerID, destination string, limit int) ([]response_models.SavedPlanResponse, error)
}

type SavedPlanService struct {
	repo     repositories.ISavedPlanRepository
	embedder utils.EmbeddingClientInterface
	logger   *zap.Logger
}

func NewSavedPlanService(
	repo repositories.ISavedPlanRepository,
	embedder utils.EmbeddingClientInterface,
	log *zap.Logger,
) SavedPlanServiceInterface {
	return &SavedPlanService{repo: repo, embedder: embedder, logger: logger.OrNop(log)}
}

func (s *SavedPlanService) SavePlan(ctx context.Context, ownerID string, req request_models.TravelPlanRequest, plan response_models.TravelPlan) (string, error) {
	if ownerID == "" {
		return "", utils.ErrUnauthenticated
	}
	if !req.Valid() {
		return "", utils.ErrInvalidInput
	}

	body, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}

	record := &db_models.SavedPlan{
		OwnerID:     ownerID,
		Destination: req.Destination,
		Days:        req.Days,
		GroupType:   req.GroupType,
		BudgetType:  req.BudgetType,
		Plan:        datatypes.JSON(body),
		PlaceNames:  plan.PlaceNames(),
	}
	if vec, err := s.embedder.GetEmbedding(ctx, normalizeDestination(req.Destination)); err != nil {
		s.logger.Warn("destination embedding failed, saving without it",
			zap.String("destination", req.Destination), zap.Error(err))
	} else {
		record.Embedding = &vec
	}

	if err := s.repo.CreateSavedPlan(ctx, record); err != nil {
		s.logger.Error("save travel plan failed", zap.String("owner_id", ownerID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return record.ID.String(), nil
}

func (s *SavedPlanService) ListPlans(ctx context.Context, ownerID string, page, pageSize int) (response_models.SavedPlanPage, error) {
	if ownerID == "" {
		return response_models.SavedPlanPage{}, utils.ErrUnauthenticated
	}
	if page < 1 {
		return response_models.SavedPlanPage{}, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return response_models.SavedPlanPage{}, utils.ErrInvalidPageSize
	}

	records, total, err := s.repo.ListSavedPlansByOwner(ctx, ownerID, (page-1)*pageSize, pageSize)
	if err != nil {
		return response_models.SavedPlanPage{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	items, err := s.toResponses(records)
	if err != nil {
		return response_models.SavedPlanPage{}, err
	}
	return response_models.SavedPlanPage{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *SavedPlanService) GetPlan(ctx context.Context, ownerID, planID string) (response_models.SavedPlanResponse, error) {
	if ownerID == "" {
		return response_models.SavedPlanResponse{}, utils.ErrUnauthenticated
	}
	id, err := uuid.Parse(planID)
	if err != nil {
		return response_models.SavedPlanResponse{}, utils.ErrPlanNotFound
	}

	record, err := s.repo.GetSavedPlanByOwner(ctx, ownerID, id)
	if err != nil {
		return response_models.SavedPlanResponse{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if record == nil {
		return response_models.SavedPlanResponse{}, utils.ErrPlanNotFound
	}
	return toSavedPlanResponse(*record)
}

func (s *SavedPlanService) FindSimilarPlans(ctx context.Context, ownerID, destination string, limit int) ([]response_models.SavedPlanResponse, error) {
	if ownerID == "" {
		return nil, utils.ErrUnauthenticated
	}
	destination = normalizeDestination(destination)
	if destination == "" {
		return nil, utils.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}

	vec, err := s.embedder.GetEmbedding(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("embed destination: %w", err)
	}

	records, err := s.repo.FindSimilarSavedPlans(ctx, ownerID, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return s.toResponses(records)
}

func (s *SavedPlanService) toResponses(records []db_models.SavedPlan) ([]response_models.SavedPlanResponse, error) {
	out := make([]response_models.SavedPlanResponse, 0, len(records))
	for _, r := range records {
		resp, err := toSavedPlanResponse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func toSavedPlanResponse(r db_models.SavedPlan) (response_models.SavedPlanResponse, error) {
	var plan response_models.TravelPlan
	if err := json.Unmarshal(r.Plan, &plan); err != nil {
		return response_models.SavedPlanResponse{}, fmt.Errorf("%w: stored plan %s: %v", utils.ErrDatabaseError, r.ID, err)
	}

	names := []string(r.PlaceNames)
	if names == nil {
		names = []string{}
	}
	return response_models.SavedPlanResponse{
		ID:          r.ID.String(),
		Destination: r.Destination,
		Days:        r.Days,
		GroupType:   r.GroupType,
		BudgetType:  r.BudgetType,
		Plan:        plan,
		PlaceNames:  names,
		CreatedAt:   utils.FormatRFC3339(utils.FromUnixSeconds(r.CreatedAt)),
	}, nil
}

func normalizeDestination(destination string) string {
	return strings.ToLower(strings.TrimSpace(destination))
}
