package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/logger"
	"wanderplan/pkg/utils"
)

// PreviewImageFinder looks up an image for a coordinate. "" means none.
type PreviewImageFinder interface {
	PreviewImage(ctx context.Context, lat, lng float64) (string, error)
}

type ImageEnrichmentServiceInterface interface {
	FillMissingImages(ctx context.Context, plan response_models.TravelPlan) response_models.TravelPlan
}

type ImageEnrichmentService struct {
	finder PreviewImageFinder
	logger *zap.Logger
}

func NewImageEnrichmentService(finder PreviewImageFinder, log *zap.Logger) ImageEnrichmentServiceInterface {
	return &ImageEnrichmentService{finder: finder, logger: logger.OrNop(log)}
}

// FillMissingImages returns a copy of plan with empty image fields filled
// from the finder. Lookup failures leave the entry as it was.
func (s *ImageEnrichmentService) FillMissingImages(ctx context.Context, plan response_models.TravelPlan) response_models.TravelPlan {
	out := plan.Clone()
	if s.finder == nil {
		return out
	}

	for i := range out.Hotels {
		h := &out.Hotels[i]
		if h.Image() != "" {
			continue
		}
		if img, ok := s.lookup(ctx, h.Coordinates(), h.Name()); ok {
			h.SetImage(img)
		}
	}

	for d := range out.Itinerary {
		for i := range out.Itinerary[d].Places {
			p := &out.Itinerary[d].Places[i]
			if p.Image() != "" {
				continue
			}
			if img, ok := s.lookup(ctx, p.Coordinates(), p.Name()); ok {
				p.SetImage(img)
			}
		}
	}
	return out
}

func (s *ImageEnrichmentService) lookup(ctx context.Context, coords response_models.Coordinates, name string) (string, bool) {
	if !coords.Resolved() || (coords.Lat == 0 && coords.Lng == 0) {
		return "", false
	}
	if ctx.Err() != nil {
		return "", false
	}

	img, err := s.finder.PreviewImage(ctx, coords.Lat, coords.Lng)
	switch {
	case errors.Is(err, utils.ErrRateLimited):
		s.logger.Warn("image lookup rate limited", zap.String("name", name))
		return "", false
	case err != nil:
		s.logger.Warn("image lookup failed", zap.String("name", name), zap.Error(err))
		return "", false
	}
	return img, img != ""
}
