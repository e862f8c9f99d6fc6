package services

import (
	"fmt"

	"go.uber.org/zap"

	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/logger"
)

// DefaultMapCenter is used when a view has no markers.
var DefaultMapCenter = response_models.LatLng{Lat: 20, Lng: 77}

type MapServiceInterface interface {
	BuildMapView(plan response_models.TravelPlan, selectedDay int) response_models.MapView
}

type MapService struct {
	logger *zap.Logger
}

func NewMapService(log *zap.Logger) MapServiceInterface {
	return &MapService{logger: logger.OrNop(log)}
}

// BuildMapView lays out hotel markers followed by the markers of the
// selected day's places. selectedDay <= 0 picks the first itinerary day.
func (s *MapService) BuildMapView(plan response_models.TravelPlan, selectedDay int) response_models.MapView {
	days := dayNumbers(plan)
	if selectedDay <= 0 {
		selectedDay = 1
		if len(days) > 0 {
			selectedDay = days[0]
		}
	}

	view := response_models.MapView{
		SelectedDay: selectedDay,
		Days:        days,
		Center:      DefaultMapCenter,
		Markers:     make([]response_models.Marker, 0, len(plan.Hotels)),
		Route:       [][2]float64{},
	}

	for i, h := range plan.Hotels {
		coords := s.resolve(h.Coordinates(), h.Coords(), "hotel", i)
		view.Markers = append(view.Markers, response_models.Marker{
			ID:       fmt.Sprintf("hotel-%d", i),
			Kind:     response_models.MarkerHotel,
			Name:     h.Name(),
			Position: coords.LatLng,
			Resolved: coords.Resolved(),
			Rating:   h.Rating,
			Image:    h.Image(),
			Address:  h.Address(),
			Price:    h.Price(),
		})
	}

	if day, ok := plan.Day(selectedDay); ok {
		route := make([][2]float64, 0, len(day.Places))
		for i, p := range day.Places {
			coords := s.resolve(p.Coordinates(), p.Coords(), "place", i)
			view.Markers = append(view.Markers, response_models.Marker{
				ID:          fmt.Sprintf("place-%d", i),
				Kind:        response_models.MarkerPlace,
				Name:        p.Name(),
				Position:    coords.LatLng,
				Resolved:    coords.Resolved(),
				Rating:      p.Rating,
				Image:       p.Image(),
				Description: p.Description(),
				Ticket:      p.Ticket(),
				TravelTime:  p.TravelTime(),
				BestTime:    p.BestTime(),
			})
			route = append(route, coords.Pair())
		}
		if len(route) > 1 {
			view.Route = route
		}
	}

	if len(view.Markers) > 0 {
		view.Center = view.Markers[0].Position
	}
	return view
}

func (s *MapService) resolve(coords response_models.Coordinates, raw []byte, kind string, index int) response_models.Coordinates {
	if !coords.Resolved() {
		s.logger.Warn("unresolvable coordinates, using 0,0",
			zap.String("kind", kind), zap.Int("index", index), zap.ByteString("coords", raw))
	}
	return coords
}

func dayNumbers(plan response_models.TravelPlan) []int {
	days := make([]int, 0, len(plan.Itinerary))
	seen := make(map[int]bool, len(plan.Itinerary))
	for _, d := range plan.Itinerary {
		if n, ok := d.Number(); ok && !seen[n] {
			seen[n] = true
			days = append(days, n)
		}
	}
	return days
}
