package routes

import (
	"context"

	"jarvis-rag-backend/internal/config"
	"jarvis-rag-backend/internal/vectorstore"
	"jarvis-rag-backend/models"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.6, 0.8}
	}
	return vectors, nil
}

func (stubEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.6, 0.8}, nil
}

func (stubEmbedder) Model() string { return "stub-embedder" }

type stubStore struct {
	matches  []models.RetrievalMatch
	upserted [][]models.ChunkRecord
}

func (s *stubStore) Upsert(_ context.Context, _ string, records []models.ChunkRecord) error {
	s.upserted = append(s.upserted, records)
	return nil
}

func (s *stubStore) Query(_ context.Context, _ string, _ []float32, _ int) ([]models.RetrievalMatch, error) {
	return s.matches, nil
}

func (s *stubStore) Stats(context.Context) (*vectorstore.IndexStats, error) {
	return &vectorstore.IndexStats{}, nil
}

type stubChat struct {
	answer string
	err    error
}

func (s *stubChat) Chat(_ context.Context, _ []models.ChatTurn) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func testConfig() *config.Config {
	return &config.Config{
		PineconeNamespace:   "default",
		ChunkSize:           900,
		ChunkOverlap:        150,
		TopK:                5,
		MaxContextChunks:    5,
		HistoryWindow:       6,
		UpsertBatchSize:     100,
		MaxFileSize:         10 << 20,
		SyncProcessingLimit: 5 << 20,
	}
}
