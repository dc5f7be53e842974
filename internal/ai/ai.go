package ai

import (
	"context"
	"errors"
	"math"

	"jarvis-rag-backend/models"
)

// ErrLLMTimeout marks a chat call that exceeded its configured budget.
// Callers use it to tell "try again later" apart from a service that is
// down.
var ErrLLMTimeout = errors.New("chat model request timed out")

// Embedder converts texts into fixed-dimensionality vectors. EmbedTexts is
// order-preserving, and all vectors are L2-normalized so that ingestion
// and query share one embedding space.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// ChatModel produces a single synchronous completion for an ordered
// message sequence.
type ChatModel interface {
	Chat(ctx context.Context, turns []models.ChatTurn) (string, error)
}

func l2Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
