package vectorstore

import (
	"context"

	"jarvis-rag-backend/models"
)

// Store persists chunk vectors and answers similarity queries. Upsert is
// idempotent by record id within a namespace; Query returns matches in
// descending similarity order with metadata attached.
type Store interface {
	Upsert(ctx context.Context, namespace string, records []models.ChunkRecord) error
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]models.RetrievalMatch, error)
	Stats(ctx context.Context) (*IndexStats, error)
}

// IndexStats is a point-in-time summary of the index contents.
type IndexStats struct {
	Dimension        int            `json:"dimension"`
	TotalVectorCount int            `json:"total_vector_count"`
	Namespaces       map[string]int `json:"namespaces"`
}
