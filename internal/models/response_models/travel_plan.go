package response_models

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Fields keeps every attribute an upstream hotel or place carried, exactly as
// it was received. The rating is held separately on the owning entry.
type Fields map[string]json.RawMessage

// Text returns the first of keys holding a non-empty string or a number,
// rendered as text. Missing, empty or non-scalar values give "".
func (f Fields) Text(keys ...string) string {
	for _, key := range keys {
		raw, ok := f[key]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

// Raw returns the first of keys present with a non-null value.
func (f Fields) Raw(keys ...string) json.RawMessage {
	for _, key := range keys {
		if raw, ok := f[key]; ok && !isJSONNull(raw) {
			return raw
		}
	}
	return nil
}

// KeyFor returns the first of keys already present, or fallback.
func (f Fields) KeyFor(fallback string, keys ...string) string {
	for _, key := range keys {
		if _, ok := f[key]; ok {
			return key
		}
	}
	return fallback
}

// SetText stores s as a JSON string under key.
func (f Fields) SetText(key, s string) {
	b, _ := json.Marshal(s)
	f[key] = b
}

func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Field synonyms. The generation prompt asks for the short names; some
// models answer with the long ones.
var (
	nameKeys        = []string{"name"}
	addressKeys     = []string{"address", "addr"}
	priceKeys       = []string{"price"}
	imageKeys       = []string{"image", "img"}
	coordKeys       = []string{"coords", "coordinates", "geoCoordinates"}
	descriptionKeys = []string{"description", "desc"}
	ticketKeys      = []string{"ticketInfo", "ticket", "ticket_info"}
	travelTimeKeys  = []string{"travelTime", "travel_time"}
	bestTimeKeys    = []string{"bestTime", "best_time"}
)

type Hotel struct {
	Fields Fields
	Rating float64
}

func (h Hotel) Name() string { return h.Fields.Text(nameKeys...) }
func (h Hotel) Address() string { return h.Fields.Text(addressKeys...) }
func (h Hotel) Price() string { return h.Fields.Text(priceKeys...) }
func (h Hotel) Image() string { return h.Fields.Text(imageKeys...) }
func (h *Hotel) SetImage(url string) { h.Fields = setImage(h.Fields, url) }
func (h Hotel) Coords() json.RawMessage { return h.Fields.Raw(coordKeys...) }
func (h Hotel) Coordinates() Coordinates { return ParseCoordinates(h.Coords()) }
func (h Hotel) MarshalJSON() ([]byte, error) { return marshalEntry(h.Fields, h.Rating) }

func (h *Hotel) UnmarshalJSON(data []byte) error {
	fields, rating, err := unmarshalEntry(data)
	if err != nil {
		return err
	}
	h.Fields, h.Rating = fields, rating
	return nil
}

type Place struct {
	Fields Fields
	Rating float64
}

func (p Place) Name() string { return p.Fields.Text(nameKeys...) }
func (p Place) Description() string { return p.Fields.Text(descriptionKeys...) }
func (p Place) Image() string { return p.Fields.Text(imageKeys...) }
func (p *Place) SetImage(url string) { p.Fields = setImage(p.Fields, url) }
func (p Place) Ticket() string { return p.Fields.Text(ticketKeys...) }
func (p Place) TravelTime() string { return p.Fields.Text(travelTimeKeys...) }
func (p Place) BestTime() string { return p.Fields.Text(bestTimeKeys...) }
func (p Place) Coords() json.RawMessage { return p.Fields.Raw(coordKeys...) }
func (p Place) Coordinates() Coordinates { return ParseCoordinates(p.Coords()) }

func (p Place) MarshalJSON() ([]byte, error) { return marshalEntry(p.Fields, p.Rating) }

func (p *Place) UnmarshalJSON(data []byte) error {
	fields, rating, err := unmarshalEntry(data)
	if err != nil {
		return err
	}
	p.Fields, p.Rating = fields, rating
	return nil
}

// ItineraryDay keeps the upstream day value untouched; it is usually a
// 1-based integer but nothing guarantees order or contiguity.
type ItineraryDay struct {
	Day    json.RawMessage
	Places []Place
}

// Number returns the day as an integer when the upstream value is numeric
// or numeric text.
func (d ItineraryDay) Number() (int, bool) {
	if isJSONNull(d.Day) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(d.Day, &n); err == nil {
		return int(n), n == math.Trunc(n)
	}
	var s string
	if err := json.Unmarshal(d.Day, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v, true
		}
	}
	return 0, false
}

type itineraryDayJSON struct {
	Day    json.RawMessage `json:"day,omitempty"`
	Places []Place         `json:"places"`
}

func (d ItineraryDay) MarshalJSON() ([]byte, error) {
	places := d.Places
	if places == nil {
		places = []Place{}
	}
	return json.Marshal(itineraryDayJSON{Day: d.Day, Places: places})
}

func (d *ItineraryDay) UnmarshalJSON(data []byte) error {
	var aux itineraryDayJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Day = aux.Day
	d.Places = aux.Places
	if d.Places == nil {
		d.Places = []Place{}
	}
	return nil
}

// TravelPlan is the canonical, rating-coerced plan handed to rendering and
// persistence. Both sequences always serialize as arrays.
type TravelPlan struct {
	Hotels    []Hotel
	Itinerary []ItineraryDay
}

type travelPlanJSON struct {
	Hotels    []Hotel        `json:"hotels"`
	Itinerary []ItineraryDay `json:"itinerary"`
}

func (p TravelPlan) MarshalJSON() ([]byte, error) {
	out := travelPlanJSON{Hotels: p.Hotels, Itinerary: p.Itinerary}
	if out.Hotels == nil {
		out.Hotels = []Hotel{}
	}
	if out.Itinerary == nil {
		out.Itinerary = []ItineraryDay{}
	}
	return json.Marshal(out)
}

func (p *TravelPlan) UnmarshalJSON(data []byte) error {
	var aux travelPlanJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Hotels = aux.Hotels
	p.Itinerary = aux.Itinerary
	if p.Hotels == nil {
		p.Hotels = []Hotel{}
	}
	if p.Itinerary == nil {
		p.Itinerary = []ItineraryDay{}
	}
	return nil
}

// Day returns the first itinerary day whose number equals n.
func (p TravelPlan) Day(n int) (ItineraryDay, bool) {
	for _, d := range p.Itinerary {
		if num, ok := d.Number(); ok && num == n {
			return d, true
		}
	}
	return ItineraryDay{}, false
}

// PlaceNames lists every place name across the itinerary, in order.
func (p TravelPlan) PlaceNames() []string {
	var names []string
	for _, d := range p.Itinerary {
		for _, place := range d.Places {
			if name := place.Name(); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// Clone returns a deep copy so cached plans are never shared with callers.
func (p TravelPlan) Clone() TravelPlan {
	out := TravelPlan{
		Hotels:    make([]Hotel, len(p.Hotels)),
		Itinerary: make([]ItineraryDay, len(p.Itinerary)),
	}
	for i, h := range p.Hotels {
		out.Hotels[i] = Hotel{Fields: h.Fields.clone(), Rating: h.Rating}
	}
	for i, d := range p.Itinerary {
		places := make([]Place, len(d.Places))
		for j, pl := range d.Places {
			places[j] = Place{Fields: pl.Fields.clone(), Rating: pl.Rating}
		}
		out.Itinerary[i] = ItineraryDay{Day: append(json.RawMessage(nil), d.Day...), Places: places}
	}
	return out
}

// setImage writes url under the image key the entry already uses, "img"
// when it has none.
func setImage(f Fields, url string) Fields {
	if f == nil {
		f = Fields{}
	}
	f.SetText(f.KeyFor("img", imageKeys...), url)
	return f
}

func marshalEntry(fields Fields, rating float64) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	r, err := json.Marshal(rating)
	if err != nil {
		return nil, err
	}
	out["rating"] = r
	return json.Marshal(out)
}

func unmarshalEntry(data []byte) (Fields, float64, error) {
	fields := Fields{}
	if isJSONNull(data) {
		return fields, 0, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, 0, err
	}
	rating := CoerceRating(fields["rating"])
	delete(fields, "rating")
	return fields, rating, nil
}

// leadingFloat matches the numeric prefix a lenient float parser accepts,
// so "4.5 stars" reads as 4.5.
var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// CoerceRating turns an upstream rating into a finite number. Numbers and
// numeric text are parsed; everything else, including null, empty text and
// values that overflow, becomes 0.
func CoerceRating(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		return parseLeadingFloat(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return finiteOrZero(strconv.ParseFloat(string(raw), 64))
	default:
		return 0
	}
}

func parseLeadingFloat(s string) float64 {
	v, _ := leadingNumber(s)
	return v
}

// leadingNumber parses the numeric prefix of s after leading whitespace.
func leadingNumber(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func finiteOrZero(v float64, err error) float64 {
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func isJSONNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
