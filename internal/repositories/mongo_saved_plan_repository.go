package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/datatypes"

	"wanderplan/internal/models/db_models"
)

const TravelPlansCollection = "travelPlans"

type travelPlanDocument struct {
	ID          string    `bson:"_id"`
	UID         string    `bson:"uid"`
	Destination string    `bson:"destination"`
	Days        int       `bson:"days"`
	GroupType   string    `bson:"groupType"`
	BudgetType  string    `bson:"budgetType"`
	Plan        bson.D    `bson:"plan"`
	PlaceNames  []string  `bson:"placeNames,omitempty"`
	Embedding   []float32 `bson:"embedding,omitempty"`
	CreatedAt   int64     `bson:"createdAt"`
	UpdatedAt   int64     `bson:"updatedAt"`
}

// MongoSavedPlanRepository keeps saved plans in the travelPlans collection,
// keyed by owner uid.
type MongoSavedPlanRepository struct {
	collection *mongo.Collection
}

func NewMongoSavedPlanRepository(db *mongo.Database) *MongoSavedPlanRepository {
	return &MongoSavedPlanRepository{collection: db.Collection(TravelPlansCollection)}
}

// EnsureIndexes creates the owner listing index.
func (r *MongoSavedPlanRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uid", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *MongoSavedPlanRepository) CreateSavedPlan(ctx context.Context, plan *db_models.SavedPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	now := db_models.NowUnix()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	doc, err := toTravelPlanDocument(plan)
	if err != nil {
		return err
	}
	_, err = r.collection.InsertOne(ctx, doc)
	return err
}

func (r *MongoSavedPlanRepository) ListSavedPlansByOwner(ctx context.Context, ownerID string, offset, limit int) ([]db_models.SavedPlan, int64, error) {
	filter := bson.M{"uid": ownerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"embedding": 0})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	plans, err := decodeTravelPlans(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

func (r *MongoSavedPlanRepository) GetSavedPlanByOwner(ctx context.Context, ownerID string, id uuid.UUID) (*db_models.SavedPlan, error) {
	var doc travelPlanDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String(), "uid": ownerID},
		options.FindOne().SetProjection(bson.M{"embedding": 0})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	plan, err := fromTravelPlanDocument(doc)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindSimilarSavedPlans ranks the owner's plans by cosine similarity in
// process; documents without an embedding are skipped.
func (r *MongoSavedPlanRepository) FindSimilarSavedPlans(ctx context.Context, ownerID string, vector pgvector.Vector, limit int) ([]db_models.SavedPlan, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"uid": ownerID, "embedding": bson.M{"$exists": true}})
	if err != nil {
		return nil, err
	}

	plans, err := decodeTravelPlans(ctx, cursor)
	if err != nil {
		return nil, err
	}

	target := vector.Slice()
	scores := make(map[uuid.UUID]float64, len(plans))
	for _, p := range plans {
		scores[p.ID] = cosineSimilarity(target, embeddingSlice(p.Embedding))
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return scores[plans[i].ID] > scores[plans[j].ID]
	})
	if len(plans) > limit {
		plans = plans[:limit]
	}
	return plans, nil
}

func decodeTravelPlans(ctx context.Context, cursor *mongo.Cursor) ([]db_models.SavedPlan, error) {
	defer cursor.Close(ctx)

	var docs []travelPlanDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	plans := make([]db_models.SavedPlan, 0, len(docs))
	for _, doc := range docs {
		plan, err := fromTravelPlanDocument(doc)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func toTravelPlanDocument(plan *db_models.SavedPlan) (travelPlanDocument, error) {
	var body bson.D
	if err := bson.UnmarshalExtJSON(plan.Plan, false, &body); err != nil {
		return travelPlanDocument{}, fmt.Errorf("encode plan document: %w", err)
	}

	return travelPlanDocument{
		ID:          plan.ID.String(),
		UID:         plan.OwnerID,
		Destination: plan.Destination,
		Days:        plan.Days,
		GroupType:   plan.GroupType,
		BudgetType:  plan.BudgetType,
		Plan:        body,
		PlaceNames:  plan.PlaceNames,
		Embedding:   embeddingSlice(plan.Embedding),
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}, nil
}

func fromTravelPlanDocument(doc travelPlanDocument) (db_models.SavedPlan, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return db_models.SavedPlan{}, fmt.Errorf("travel plan document id %q: %w", doc.ID, err)
	}
	body, err := bson.MarshalExtJSON(doc.Plan, false, false)
	if err != nil {
		return db_models.SavedPlan{}, fmt.Errorf("decode plan document: %w", err)
	}

	plan := db_models.SavedPlan{
		OwnerID:     doc.UID,
		Destination: doc.Destination,
		Days:        doc.Days,
		GroupType:   doc.GroupType,
		BudgetType:  doc.BudgetType,
		Plan:        datatypes.JSON(body),
		PlaceNames:  doc.PlaceNames,
	}
	plan.ID = id
	plan.CreatedAt = doc.CreatedAt
	plan.UpdatedAt = doc.UpdatedAt
	if len(doc.Embedding) > 0 {
		vec := pgvector.NewVector(doc.Embedding)
		plan.Embedding = &vec
	}
	return plan, nil
}

func embeddingSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return -1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return -1
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
