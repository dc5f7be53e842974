package ai

import (
	"context"
	"fmt"
	"time"

	"jarvis-rag-backend/internal/config"
)

// BuildEmbedder constructs the configured embeddings provider. Both the
// API and the worker go through here so they always share an embedding
// space.
func BuildEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	switch cfg.EmbeddingsProvider {
	case "google":
		return NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GoogleEmbeddingsModel)
	case "ollama":
		return NewOllamaClient(OllamaOptions{
			BaseURL:    cfg.OllamaBaseURL,
			EmbedModel: cfg.OllamaEmbeddingsModel,
			Timeout:    time.Duration(cfg.LLMTimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider: %q", cfg.EmbeddingsProvider)
	}
}

// BuildChatModel constructs the configured chat provider.
func BuildChatModel(ctx context.Context, cfg *config.Config) (ChatModel, error) {
	switch cfg.LLMProvider {
	case "google":
		return NewGeminiChat(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "ollama":
		return NewOllamaClient(OllamaOptions{
			BaseURL:   cfg.OllamaBaseURL,
			ChatModel: cfg.OllamaModel,
			Timeout:   time.Duration(cfg.LLMTimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLMProvider)
	}
}
