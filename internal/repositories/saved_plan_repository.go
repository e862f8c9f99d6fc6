package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"wanderplan/internal/models/db_models"
)

type ISavedPlanRepository interface {
	CreateSavedPlan(ctx context.Context, plan *db_models.SavedPlan) error
	ListSavedPlansByOwner(ctx context.Context, ownerID string, offset, limit int) ([]db_models.SavedPlan, int64, error)
	// GetSavedPlanByOwner returns nil, nil when the owner has no plan with id.
	GetSavedPlanByOwner(ctx context.Context, ownerID string, id uuid.UUID) (*db_models.SavedPlan, error)
	FindSimilarSavedPlans(ctx context.Context, ownerID string, vector pgvector.Vector, limit int) ([]db_models.SavedPlan, error)
}

type SavedPlanRepository struct {
	db *gorm.DB
}

func NewSavedPlanRepository(db *gorm.DB) ISavedPlanRepository {
	return &SavedPlanRepository{db: db}
}

func (r *SavedPlanRepository) CreateSavedPlan(ctx context.Context, plan *db_models.SavedPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *SavedPlanRepository) ListSavedPlansByOwner(ctx context.Context, ownerID string, offset, limit int) ([]db_models.SavedPlan, int64, error) {
	var (
		plans []db_models.SavedPlan
		total int64
	)

	query := r.db.WithContext(ctx).Model(&db_models.SavedPlan{}).Where("owner_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Omit("embedding").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&plans).Error
	if err != nil {
		return nil, 0, err
	}

	return plans, total, nil
}

func (r *SavedPlanRepository) GetSavedPlanByOwner(ctx context.Context, ownerID string, id uuid.UUID) (*db_models.SavedPlan, error) {
	var plan db_models.SavedPlan
	err := r.db.WithContext(ctx).
		Omit("embedding").
		First(&plan, "id = ? AND owner_id = ?", id, ownerID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

func (r *SavedPlanRepository) FindSimilarSavedPlans(ctx context.Context, ownerID string, vector pgvector.Vector, limit int) ([]db_models.SavedPlan, error) {
	var results []db_models.SavedPlan

	query := `
        SELECT id, created_at, updated_at, owner_id, destination, days, group_type, budget_type, plan, place_names
        FROM saved_plans
        WHERE owner_id = ? AND deleted_at IS NULL AND embedding IS NOT NULL
        ORDER BY embedding <=> ?  -- cosine distance
        LIMIT ?
    `

	err := r.db.WithContext(ctx).Raw(query, ownerID, vector, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
