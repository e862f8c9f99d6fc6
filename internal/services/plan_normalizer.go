package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/logger"
	"wanderplan/pkg/utils"
)

type PlanNormalizerInterface interface {
	Normalize(raw response_models.RawResult) (response_models.TravelPlan, error)
}

type PlanNormalizer struct {
	logger *zap.Logger
}

func NewPlanNormalizer(log *zap.Logger) PlanNormalizerInterface {
	return &PlanNormalizer{logger: logger.OrNop(log)}
}

// envelope is the raw result split into the two shapes rules look at.
type envelope struct {
	text   *string
	object map[string]json.RawMessage
}

type candidate map[string]json.RawMessage

// envelopeRule pairs a shape predicate with an extractor. The first rule
// whose predicate matches decides the outcome; its extractor never fails
// hard, it returns no candidate plus an optional parse error.
type envelopeRule struct {
	name    string
	matches func(e envelope) bool
	extract func(e envelope) (candidate, *utils.ParseError)
}

var envelopeRules = []envelopeRule{
	{
		name:    "text",
		matches: func(e envelope) bool { return e.text != nil },
		extract: func(e envelope) (candidate, *utils.ParseError) { return parseCandidate("text", *e.text) },
	},
	{
		name: "plan",
		matches: func(e envelope) bool {
			return e.object != nil && truthy(e.object["hotels"]) && truthy(e.object["itinerary"])
		},
		extract: func(e envelope) (candidate, *utils.ParseError) { return candidate(e.object), nil },
	},
	nestedTextRule("response"),
	nestedTextRule("content"),
}

// nestedTextRule handles envelopes whose field carries the plan as JSON text.
func nestedTextRule(field string) envelopeRule {
	return envelopeRule{
		name: field,
		matches: func(e envelope) bool {
			_, ok := stringField(e.object, field)
			return ok
		},
		extract: func(e envelope) (candidate, *utils.ParseError) {
			s, _ := stringField(e.object, field)
			return parseCandidate(field, s)
		},
	}
}

// Normalize turns a raw generation result into a canonical TravelPlan.
// Errors wrap utils.ErrUnrecognizedPlan when no rule yields a candidate and
// utils.ErrInvalidPlan when the candidate's fields have the wrong types.
func (n *PlanNormalizer) Normalize(raw response_models.RawResult) (response_models.TravelPlan, error) {
	env := sniffEnvelope(raw)

	var (
		cand     candidate
		parseErr *utils.ParseError
	)
	for _, rule := range envelopeRules {
		if !rule.matches(env) {
			continue
		}
		cand, parseErr = rule.extract(env)
		if parseErr != nil {
			n.logger.Warn("generation payload is not valid JSON",
				zap.String("rule", rule.name), zap.Error(parseErr))
		}
		break
	}

	if cand == nil {
		if parseErr != nil {
			return response_models.TravelPlan{}, fmt.Errorf("%w: %w", utils.ErrUnrecognizedPlan, parseErr)
		}
		return response_models.TravelPlan{}, utils.ErrUnrecognizedPlan
	}

	hotels, okHotels := jsonArray(cand["hotels"])
	days, okDays := jsonArray(cand["itinerary"])
	if !okHotels || !okDays {
		return response_models.TravelPlan{}, fmt.Errorf("%w: hotels and itinerary must be arrays", utils.ErrInvalidPlan)
	}

	return coercePlan(hotels, days)
}

func coercePlan(hotels, days []json.RawMessage) (response_models.TravelPlan, error) {
	plan := response_models.TravelPlan{
		Hotels:    make([]response_models.Hotel, 0, len(hotels)),
		Itinerary: make([]response_models.ItineraryDay, 0, len(days)),
	}

	for i, raw := range hotels {
		if !objectOrNull(raw) {
			return response_models.TravelPlan{}, fmt.Errorf("%w: hotel %d is not an object", utils.ErrInvalidPlan, i)
		}
		var h response_models.Hotel
		if err := h.UnmarshalJSON(raw); err != nil {
			return response_models.TravelPlan{}, fmt.Errorf("%w: hotel %d: %v", utils.ErrInvalidPlan, i, err)
		}
		plan.Hotels = append(plan.Hotels, h)
	}

	for i, raw := range days {
		var day struct {
			Day    json.RawMessage `json:"day"`
			Places json.RawMessage `json:"places"`
		}
		if !isObject(raw) || json.Unmarshal(raw, &day) != nil {
			return response_models.TravelPlan{}, fmt.Errorf("%w: itinerary day %d is not an object", utils.ErrInvalidPlan, i)
		}

		var rawPlaces []json.RawMessage
		if !isNull(day.Places) {
			var ok bool
			if rawPlaces, ok = jsonArray(day.Places); !ok {
				return response_models.TravelPlan{}, fmt.Errorf("%w: itinerary day %d places must be an array", utils.ErrInvalidPlan, i)
			}
		}

		places := make([]response_models.Place, 0, len(rawPlaces))
		for j, rawPlace := range rawPlaces {
			if !objectOrNull(rawPlace) {
				return response_models.TravelPlan{}, fmt.Errorf("%w: itinerary day %d place %d is not an object", utils.ErrInvalidPlan, i, j)
			}
			var p response_models.Place
			if err := p.UnmarshalJSON(rawPlace); err != nil {
				return response_models.TravelPlan{}, fmt.Errorf("%w: itinerary day %d place %d: %v", utils.ErrInvalidPlan, i, j, err)
			}
			places = append(places, p)
		}

		plan.Itinerary = append(plan.Itinerary, response_models.ItineraryDay{Day: day.Day, Places: places})
	}

	return plan, nil
}

func sniffEnvelope(raw response_models.RawResult) envelope {
	if s, ok := raw.Text(); ok {
		return envelope{text: &s}
	}
	var obj map[string]json.RawMessage
	if isObject(raw.Value()) && json.Unmarshal(raw.Value(), &obj) == nil {
		return envelope{object: obj}
	}
	return envelope{}
}

// parseCandidate parses text as JSON and keeps it only when it is an object
// with truthy hotels and itinerary.
func parseCandidate(source, text string) (candidate, *utils.ParseError) {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &utils.ParseError{Source: source, Err: err}
	}
	var cand candidate
	if !isObject(raw) || json.Unmarshal(raw, &cand) != nil {
		return nil, nil
	}
	if !truthy(cand["hotels"]) || !truthy(cand["itinerary"]) {
		return nil, nil
	}
	return cand, nil
}

// truthy mirrors the client-side presence check: absent, null, false, zero
// and empty text count as missing; empty arrays and objects do not.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case '"':
		return len(raw) > 2
	case '[', '{', 't':
		return true
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return false
		}
		return f != 0
	}
}

func stringField(obj map[string]json.RawMessage, field string) (string, bool) {
	raw, ok := obj[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func jsonArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func objectOrNull(raw json.RawMessage) bool {
	return isObject(raw) || isNull(raw)
}

// IsPlanError reports whether err came from normalization rather than from
// the transport.
func IsPlanError(err error) bool {
	return errors.Is(err, utils.ErrUnrecognizedPlan) || errors.Is(err, utils.ErrInvalidPlan)
}
