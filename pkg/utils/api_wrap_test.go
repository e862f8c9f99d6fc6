package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err     error
		status  int
		message string
	}{
		{ErrInvalidInput, http.StatusBadRequest, "Invalid trip parameters"},
		{ErrInvalidPage, http.StatusBadRequest, "Page must be greater than 0"},
		{ErrUnauthenticated, http.StatusUnauthorized, "Please log in to save your travel plan."},
		{ErrPlanNotFound, http.StatusNotFound, "Travel plan not found"},
		{fmt.Errorf("%w: %w", ErrUnrecognizedPlan, &ParseError{Source: "text", Err: errors.New("bad")}), http.StatusBadGateway, "The AI returned an unusable travel plan. Please try again."},
		{fmt.Errorf("%w: hotels and itinerary must be arrays", ErrInvalidPlan), http.StatusBadGateway, "The AI returned an unusable travel plan. Please try again."},
		{fmt.Errorf("%w: timeout", ErrTransport), http.StatusBadGateway, "Error generating content. Please try again."},
		{fmt.Errorf("%w: conn reset", ErrDatabaseError), http.StatusInternalServerError, "Internal server error"},
		{errors.New("other"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set("trace_id", "trace-1")

			HandleServiceError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, "trace-1", resp.TraceID)
		})
	}
}

func TestParseError(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := &ParseError{Source: "response", Err: inner}

	assert.Equal(t, "parse response payload: unexpected end of JSON input", err.Error())
	assert.ErrorIs(t, err, inner)
}
