package db_models

import (
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// SavedPlan is a generated plan kept by its owner together with the request
// that produced it. Embedding is nil when no vector could be computed.
type SavedPlan struct {
	BaseModel
	OwnerID     string           `gorm:"type:varchar(128);not null;index"`
	Destination string           `gorm:"type:varchar(120);not null"`
	Days        int              `gorm:"not null"`
	GroupType   string           `gorm:"type:varchar(16);not null"`
	BudgetType  string           `gorm:"type:varchar(16);not null"`
	Plan        datatypes.JSON   `gorm:"type:jsonb;not null"`
	PlaceNames  pq.StringArray   `gorm:"type:text[]"`
	Embedding   *pgvector.Vector `gorm:"type:vector(256)"`
}
