package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wanderplan/internal/models/response_models"
)

// ContentAPIClient talks to the question/answer relay the web client used:
// POST {"question": ..., "history": [...]} and read {"result": ...}.
type ContentAPIClient struct {
	HTTP *http.Client
	URL  string
}

func NewContentAPIClient(url string) *ContentAPIClient {
	return &ContentAPIClient{
		HTTP: &http.Client{Timeout: 90 * time.Second},
		URL:  url,
	}
}

type contentAPIRequest struct {
	Question string        `json:"question"`
	History  []ChatMessage `json:"history"`
}

type contentAPIResponse struct {
	Result json.RawMessage `json:"result"`
}

func (c *ContentAPIClient) Generate(ctx context.Context, prompt string, history []ChatMessage) (response_models.RawResult, error) {
	if history == nil {
		history = []ChatMessage{}
	}
	body, err := json.Marshal(contentAPIRequest{Question: prompt, History: history})
	if err != nil {
		return response_models.RawResult{}, fmt.Errorf("content api encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return response_models.RawResult{}, fmt.Errorf("content api request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return response_models.RawResult{}, fmt.Errorf("content api http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return response_models.RawResult{}, fmt.Errorf("content api rate limit exceeded")
	}
	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return response_models.RawResult{}, fmt.Errorf("content api bad status: %s: %s", resp.Status, bytes.TrimSpace(snippet))
	}

	var payload contentAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return response_models.RawResult{}, fmt.Errorf("content api decode: %w", err)
	}
	return response_models.JSONResult(payload.Result), nil
}
