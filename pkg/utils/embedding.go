package utils

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

// EmbeddingDimensions is the width of the destination vectors stored with
// saved plans.
const EmbeddingDimensions = 256

type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

type OpenAIEmbeddingClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIEmbeddingClient(apiKey, model, baseURL string) *OpenAIEmbeddingClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbeddingClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *OpenAIEmbeddingClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: EmbeddingDimensions,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: empty response")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

// HashedEmbeddingClient builds a deterministic bag-of-words vector without
// calling any API. Texts sharing words land close together, which is enough
// to group plans by destination.
type HashedEmbeddingClient struct{}

func (HashedEmbeddingClient) GetEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	return pgvector.NewVector(textToVector(text)), nil
}

func textToVector(text string) []float32 {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	vector := make([]float32, EmbeddingDimensions)

	for _, word := range words {
		hash := hashWord(word)
		for i := 0; i < EmbeddingDimensions; i++ {
			vector[i] += float32(math.Sin(float64(hash+uint32(i))) * 0.1)
		}
	}

	var magnitude float64
	for _, val := range vector {
		magnitude += float64(val) * float64(val)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / magnitude)
		}
	}
	return vector
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}
