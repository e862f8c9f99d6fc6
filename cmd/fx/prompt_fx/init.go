package prompt_fx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wanderplan/pkg/config"
	"wanderplan/pkg/utils"
)

var Module = fx.Provide(
	ProvidePlanGenerator,
	ProvideEmbeddingClient)

// ProvidePlanGenerator creates the generation backend named by GENERATION_PROVIDER
func ProvidePlanGenerator(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (utils.PlanGenerator, error) {
	log.Info("Initializing plan generator", zap.String("provider", cfg.GenerationProvider))

	switch strings.ToLower(cfg.GenerationProvider) {
	case "content_api", "":
		return utils.NewContentAPIClient(cfg.ContentAPIURL), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when using Gemini provider")
		}
		client, err := utils.NewGeminiPlanGenerator(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return client.Close() },
		})
		return client, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when using OpenAI provider")
		}
		return utils.NewOpenAIPlanGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, ""), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s. Use 'content_api', 'gemini' or 'openai'", cfg.GenerationProvider)
	}
}

// ProvideEmbeddingClient uses OpenAI embeddings when a key is configured and
// the local hashed vectors otherwise.
func ProvideEmbeddingClient(cfg config.Config, log *zap.Logger) utils.EmbeddingClientInterface {
	if cfg.OpenAIAPIKey == "" {
		log.Info("OPENAI_API_KEY not set, using hashed destination embeddings")
		return utils.HashedEmbeddingClient{}
	}
	return utils.NewOpenAIEmbeddingClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, "")
}
