package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/internal/models/response_models"
	"wanderplan/pkg/utils"
)

func normalize(t *testing.T, raw response_models.RawResult) (response_models.TravelPlan, error) {
	t.Helper()
	return NewPlanNormalizer(nil).Normalize(raw)
}

func planJSON(t *testing.T, plan response_models.TravelPlan) string {
	t.Helper()
	data, err := json.Marshal(plan)
	require.NoError(t, err)
	return string(data)
}

func TestNormalize_EndToEndText(t *testing.T) {
	raw := response_models.TextResult(`{"hotels":[{"name":"Sea View","rating":"4.2"}],"itinerary":[{"day":1,"places":[{"name":"Beach","rating":null}]}]}`)

	plan, err := normalize(t, raw)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"hotels":[{"name":"Sea View","rating":4.2}],"itinerary":[{"day":1,"places":[{"name":"Beach","rating":0}]}]}`,
		planJSON(t, plan))
}

func TestNormalize_RoundTripUpToCoercion(t *testing.T) {
	input := `{
		"hotels": [
			{"name": "A", "addr": "1 Road", "coords": "15.1,73.2", "rating": 4},
			{"name": "B", "coords": {"latitude": 1, "longitude": 2}, "rating": "3.5"}
		],
		"itinerary": [
			{"day": 2, "places": [{"name": "X", "coords": [1, 2], "ticket": "Free", "rating": "bad"}]},
			{"day": 1, "places": []}
		]
	}`

	plan, err := normalize(t, response_models.TextResult(input))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"hotels": [
			{"name": "A", "addr": "1 Road", "coords": "15.1,73.2", "rating": 4},
			{"name": "B", "coords": {"latitude": 1, "longitude": 2}, "rating": 3.5}
		],
		"itinerary": [
			{"day": 2, "places": [{"name": "X", "coords": [1, 2], "ticket": "Free", "rating": 0}]},
			{"day": 1, "places": []}
		]
	}`, planJSON(t, plan))

	again, err := normalize(t, response_models.TextResult(planJSON(t, plan)))
	require.NoError(t, err)
	assert.Equal(t, planJSON(t, plan), planJSON(t, again))
}

func TestNormalize_Envelopes(t *testing.T) {
	tests := []struct {
		name string
		raw  response_models.RawResult
		want string
	}{
		{
			name: "plan object",
			raw:  response_models.JSONResult(json.RawMessage(`{"hotels":[{"name":"H","rating":"5"}],"itinerary":[]}`)),
			want: `{"hotels":[{"name":"H","rating":5}],"itinerary":[]}`,
		},
		{
			name: "response text",
			raw:  response_models.JSONResult(json.RawMessage(`{"response":"{\"hotels\":[],\"itinerary\":[]}"}`)),
			want: `{"hotels":[],"itinerary":[]}`,
		},
		{
			name: "content text",
			raw:  response_models.JSONResult(json.RawMessage(`{"content":"{\"hotels\":[],\"itinerary\":[{\"day\":1}]}"}`)),
			want: `{"hotels":[],"itinerary":[{"day":1,"places":[]}]}`,
		},
		{
			name: "json string literal",
			raw:  response_models.JSONResult(json.RawMessage(`"{\"hotels\":[],\"itinerary\":[]}"`)),
			want: `{"hotels":[],"itinerary":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := normalize(t, tt.raw)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, planJSON(t, plan))
		})
	}
}

func TestNormalize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		raw     response_models.RawResult
		wantErr error
	}{
		{"not json", response_models.TextResult("not json"), utils.ErrUnrecognizedPlan},
		{"text without plan fields", response_models.TextResult(`{"hotels":[]}`), utils.ErrUnrecognizedPlan},
		{"text array", response_models.TextResult(`[1,2]`), utils.ErrUnrecognizedPlan},
		{"empty object", response_models.JSONResult(json.RawMessage(`{}`)), utils.ErrUnrecognizedPlan},
		{"falsy plan fields", response_models.JSONResult(json.RawMessage(`{"hotels":0,"itinerary":""}`)), utils.ErrUnrecognizedPlan},
		{"bad response text", response_models.JSONResult(json.RawMessage(`{"response":"oops"}`)), utils.ErrUnrecognizedPlan},
		{"non-object value", response_models.JSONResult(json.RawMessage(`42`)), utils.ErrUnrecognizedPlan},
		{"hotels not array", response_models.JSONResult(json.RawMessage(`{"hotels":"not-an-array","itinerary":[]}`)), utils.ErrInvalidPlan},
		{"itinerary not array in text", response_models.TextResult(`{"hotels":[],"itinerary":{"day":1}}`), utils.ErrInvalidPlan},
		{"places not array", response_models.TextResult(`{"hotels":[],"itinerary":[{"day":1,"places":"x"}]}`), utils.ErrInvalidPlan},
		{"hotel not object", response_models.TextResult(`{"hotels":["x"],"itinerary":[]}`), utils.ErrInvalidPlan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalize(t, tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsPlanError(err))
		})
	}
}

func TestNormalize_ParseErrorIsAttached(t *testing.T) {
	_, err := normalize(t, response_models.TextResult("{broken"))

	var parseErr *utils.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "text", parseErr.Source)
	assert.ErrorIs(t, err, utils.ErrUnrecognizedPlan)
}

func TestNormalize_FirstMatchingRuleCommits(t *testing.T) {
	// The plan rule matches first, so the valid nested response is never read.
	raw := response_models.JSONResult(json.RawMessage(`{
		"hotels": "bad",
		"itinerary": [],
		"response": "{\"hotels\":[],\"itinerary\":[]}"
	}`))

	_, err := normalize(t, raw)
	assert.ErrorIs(t, err, utils.ErrInvalidPlan)
}

func TestNormalize_MissingPlacesBecomeEmpty(t *testing.T) {
	plan, err := normalize(t, response_models.TextResult(`{"hotels":[null],"itinerary":[{"day":1,"places":null}]}`))
	require.NoError(t, err)

	require.Len(t, plan.Hotels, 1)
	assert.Equal(t, 0.0, plan.Hotels[0].Rating)
	require.Len(t, plan.Itinerary, 1)
	assert.NotNil(t, plan.Itinerary[0].Places)
	assert.Empty(t, plan.Itinerary[0].Places)
}

func TestNormalize_KeepsNullDay(t *testing.T) {
	plan, err := normalize(t, response_models.TextResult(`{"hotels":[],"itinerary":[{"day":null,"places":[]},{"places":[]}]}`))
	require.NoError(t, err)

	_, ok := plan.Itinerary[0].Number()
	assert.False(t, ok)
	assert.JSONEq(t,
		`{"hotels":[],"itinerary":[{"day":null,"places":[]},{"places":[]}]}`,
		planJSON(t, plan))
}
