package utils

import (
	"context"

	"wanderplan/internal/models/response_models"
)

// ChatMessage is one prior turn of a generation conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// PlanGenerator sends a prompt to a language model backend and returns its
// answer uninterpreted.
type PlanGenerator interface {
	Generate(ctx context.Context, prompt string, history []ChatMessage) (response_models.RawResult, error)
}
