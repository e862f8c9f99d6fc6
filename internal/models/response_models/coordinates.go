package response_models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type CoordinateKind int

const (
	CoordsUnknown CoordinateKind = iota
	CoordsPair
	CoordsDelimited
	CoordsObject
)

func (k CoordinateKind) String() string {
	switch k {
	case CoordsPair:
		return "pair"
	case CoordsDelimited:
		return "delimited"
	case CoordsObject:
		return "object"
	default:
		return "unknown"
	}
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Coordinates is a coordinate value resolved from one of the shapes models
// emit: [lat, lng], "lat,lng", or an object with lat/latitude and
// lng/lon/longitude. An unrecognized value has Kind CoordsUnknown and
// resolves to 0,0.
type Coordinates struct {
	Kind CoordinateKind
	LatLng
}

func (c Coordinates) Resolved() bool { return c.Kind != CoordsUnknown }

// Pair returns the position as [lat, lng], the order map clients expect.
func (c Coordinates) Pair() [2]float64 { return [2]float64{c.Lat, c.Lng} }

var (
	latKeys = []string{"lat", "latitude"}
	lngKeys = []string{"lng", "lon", "longitude"}
)

func ParseCoordinates(raw json.RawMessage) Coordinates {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Coordinates{}
	}
	switch raw[0] {
	case '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
			return Coordinates{}
		}
		lat, okLat := coordNumber(pair[0])
		lng, okLng := coordNumber(pair[1])
		if !okLat || !okLng {
			return Coordinates{}
		}
		return Coordinates{Kind: CoordsPair, LatLng: LatLng{Lat: lat, Lng: lng}}
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Coordinates{}
		}
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return Coordinates{}
		}
		lat, okLat := leadingNumber(parts[0])
		lng, okLng := leadingNumber(parts[1])
		if !okLat || !okLng {
			return Coordinates{}
		}
		return Coordinates{Kind: CoordsDelimited, LatLng: LatLng{Lat: lat, Lng: lng}}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Coordinates{}
		}
		lat, okLat := firstCoordNumber(obj, latKeys)
		lng, okLng := firstCoordNumber(obj, lngKeys)
		if !okLat || !okLng {
			return Coordinates{}
		}
		return Coordinates{Kind: CoordsObject, LatLng: LatLng{Lat: lat, Lng: lng}}
	}
	return Coordinates{}
}

func firstCoordNumber(obj map[string]json.RawMessage, keys []string) (float64, bool) {
	for _, key := range keys {
		if raw, ok := obj[key]; ok {
			if v, ok := coordNumber(raw); ok {
				return v, true
			}
		}
	}
	return 0, false
}

// coordNumber accepts a JSON number or a numeric string.
func coordNumber(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
