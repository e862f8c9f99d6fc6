package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"wanderplan/internal/models/response_models"
)

// GeminiPlanGenerator implements PlanGenerator using Google's Gemini models
type GeminiPlanGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiPlanGenerator creates a new Gemini client
func NewGeminiPlanGenerator(apiKey, model string) (*GeminiPlanGenerator, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiPlanGenerator{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiPlanGenerator) Generate(ctx context.Context, prompt string, history []ChatMessage) (response_models.RawResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return response_models.RawResult{}, fmt.Errorf("prompt cannot be empty")
	}

	m := g.client.GenerativeModel(g.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.4)
	m.SetTopP(0.8)
	m.SetMaxOutputTokens(8192)

	cs := m.StartChat()
	for _, msg := range history {
		cs.History = append(cs.History, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return response_models.RawResult{}, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return response_models.RawResult{}, fmt.Errorf("no content generated by Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return response_models.TextResult(CleanJSONResponse(text.String())), nil
}

func geminiRole(role string) string {
	switch strings.ToLower(role) {
	case "assistant", "model":
		return "model"
	default:
		return "user"
	}
}

// Close closes the Gemini client
func (g *GeminiPlanGenerator) Close() error {
	return g.client.Close()
}
