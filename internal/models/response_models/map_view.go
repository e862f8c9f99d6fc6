package response_models

type MarkerKind string

const (
	MarkerHotel MarkerKind = "hotel"
	MarkerPlace MarkerKind = "place"
)

// Marker is one pin on the trip map. Text fields a plan omits are "".
type Marker struct {
	ID          string     `json:"id"`
	Kind        MarkerKind `json:"kind"`
	Name        string     `json:"name"`
	Position    LatLng     `json:"position"`
	Resolved    bool       `json:"resolved"`
	Rating      float64    `json:"rating"`
	Image       string     `json:"image"`
	Address     string     `json:"address,omitempty"`
	Price       string     `json:"price,omitempty"`
	Description string     `json:"description"`
	Ticket      string     `json:"ticket"`
	TravelTime  string     `json:"travel_time"`
	BestTime    string     `json:"best_time"`
}

type MapView struct {
	SelectedDay int          `json:"selected_day"`
	Days        []int        `json:"days"`
	Center      LatLng       `json:"center"`
	Markers     []Marker     `json:"markers"`
	Route       [][2]float64 `json:"route"`
}
