package utils

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"wanderplan/internal/models/response_models"
)

type OpenAIPlanGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIPlanGenerator builds a chat-completions generator. baseURL may be
// empty for the public API.
func NewOpenAIPlanGenerator(apiKey, model, baseURL string) *OpenAIPlanGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIPlanGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *OpenAIPlanGenerator) Generate(ctx context.Context, prompt string, history []ChatMessage) (response_models.RawResult, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openAIRole(msg.Role),
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: 0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return response_models.RawResult{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return response_models.RawResult{}, fmt.Errorf("no choices returned by OpenAI")
	}

	return response_models.TextResult(CleanJSONResponse(resp.Choices[0].Message.Content)), nil
}

func openAIRole(role string) string {
	switch strings.ToLower(role) {
	case "assistant", "model":
		return openai.ChatMessageRoleAssistant
	case "system":
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
