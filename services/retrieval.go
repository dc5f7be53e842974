package services

import (
	"context"
	"fmt"
	"time"

	"jarvis-rag-backend/internal/ai"
	"jarvis-rag-backend/internal/config"
	"jarvis-rag-backend/internal/logger"
	"jarvis-rag-backend/internal/vectorstore"
	"jarvis-rag-backend/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const systemPrompt = `You are Jarvis, a helpful enterprise AI assistant.
Use the provided CONTEXT to answer the user's question.
- If the context is insufficient, say what is missing and ask a follow-up question.
- Be concise and accurate.
- When you use context, cite sources like: [source: <filename>#<chunk_index>]`

// RetrievalService answers one user turn: embed the question, pull the
// top-k nearest chunks, assemble bounded context, and ask the chat model.
type RetrievalService struct {
	embedder         ai.Embedder
	store            vectorstore.Store
	chat             ai.ChatModel
	namespace        string
	topK             int
	maxContextChunks int
	historyWindow    int
}

func NewRetrievalService(cfg *config.Config, embedder ai.Embedder, store vectorstore.Store, chat ai.ChatModel) *RetrievalService {
	return &RetrievalService{
		embedder:         embedder,
		store:            store,
		chat:             chat,
		namespace:        cfg.PineconeNamespace,
		topK:             cfg.TopK,
		maxContextChunks: cfg.MaxContextChunks,
		historyWindow:    cfg.HistoryWindow,
	}
}

// Answer runs the full retrieval pipeline for one user message. Any
// upstream failure (embedding, vector query, chat model) fails the whole
// turn; an empty retrieval result is not a failure — the model answers
// without grounding and the citation list comes back empty.
func (s *RetrievalService) Answer(ctx context.Context, message string, history []models.ChatTurn) (*models.ChatResult, error) {
	tracer := otel.Tracer("retrieval")
	ctx, span := tracer.Start(ctx, "retrieval.answer")
	defer span.End()

	start := time.Now()

	queryVector, err := s.embedder.EmbedQuery(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}

	matches, err := s.store.Query(ctx, s.namespace, queryVector, s.topK)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}
	span.SetAttributes(attribute.Int("retrieval.matches", len(matches)))

	contextText, citations := AssembleContext(matches, s.maxContextChunks)

	turns := make([]models.ChatTurn, 0, s.historyWindow+3)
	turns = append(turns, models.ChatTurn{Role: models.RoleSystem, Content: systemPrompt})
	turns = append(turns, WindowHistory(history, s.historyWindow)...)
	if contextText != "" {
		turns = append(turns, models.ChatTurn{
			Role:    models.RoleSystem,
			Content: "CONTEXT:\n" + contextText,
		})
	}
	turns = append(turns, models.ChatTurn{Role: models.RoleUser, Content: message})

	answer, err := s.chat.Chat(ctx, turns)
	if err != nil {
		return nil, err
	}

	latency := time.Since(start)
	logger.Debug("Chat turn answered",
		"matches", len(matches), "citations", len(citations), "latency_ms", latency.Milliseconds())

	return &models.ChatResult{
		Answer:    answer,
		Sources:   citations,
		Retrieved: len(matches),
		Latency:   latency,
	}, nil
}
