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

// IngestionService turns one document into content-addressed vector
// records: chunk, embed in one batch, upsert in bounded batches.
//
// Calls are independent and hold no shared state, so concurrent
// ingestions need no coordination: identical content converges on
// identical record ids, and the store's upsert is idempotent by id.
// Two concurrent ingestions of the same source with different content
// race last-write-wins per chunk id.
type IngestionService struct {
	embedder  ai.Embedder
	store     vectorstore.Store
	registry  *RegistryService
	namespace string
	chunkSize int
	overlap   int
	batchSize int
	now       func() time.Time
}

func NewIngestionService(cfg *config.Config, embedder ai.Embedder, store vectorstore.Store, registry *RegistryService) *IngestionService {
	batchSize := cfg.UpsertBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IngestionService{
		embedder:  embedder,
		store:     store,
		registry:  registry,
		namespace: cfg.PineconeNamespace,
		chunkSize: cfg.ChunkSize,
		overlap:   cfg.ChunkOverlap,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Ingest chunks text, embeds every chunk in one batch call, and upserts
// the records under the configured namespace.
//
// Empty or whitespace-only text is an expected outcome, reported with
// OK=false and a nil error. Embedding and store failures propagate; a
// failing batch aborts the remaining ones, and any batches already
// written stay in the index — re-running the same ingestion overwrites
// them in place.
func (s *IngestionService) Ingest(ctx context.Context, text, source string) (*models.IngestResult, error) {
	tracer := otel.Tracer("ingestion")
	ctx, span := tracer.Start(ctx, "ingest.document")
	defer span.End()
	span.SetAttributes(attribute.String("ingest.source", source))

	chunks := ChunkText(text, s.chunkSize, s.overlap)
	if len(chunks) == 0 {
		return &models.IngestResult{OK: false, Message: "No text extracted", Chunks: 0}, nil
	}
	span.SetAttributes(attribute.Int("ingest.chunks", len(chunks)))

	vectors, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding failed for %s: %w", source, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	// One timestamp for the whole call, so co-ingested chunks share it.
	ingestedAt := s.now().Unix()

	records := make([]models.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = models.ChunkRecord{
			ID:     ChunkID(source, i, chunk),
			Vector: vectors[i],
			Metadata: models.ChunkMetadata{
				Source:     source,
				ChunkIndex: i,
				Text:       chunk,
				IngestedAt: ingestedAt,
			},
		}
	}

	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.store.Upsert(ctx, s.namespace, records[start:end]); err != nil {
			if s.registry != nil {
				s.registry.MarkFailed(ctx, source, err)
			}
			return nil, fmt.Errorf("upsert batch %d-%d failed for %s: %w", start, end, source, err)
		}
	}

	if s.registry != nil {
		if err := s.registry.MarkCompleted(ctx, source, len(chunks)); err != nil {
			// Registry is bookkeeping; the vectors are already in place.
			logger.Warn("Failed to update document registry", "source", source, "error", err)
		}
	}

	logger.Info("Document ingested", "source", source, "chunks", len(chunks))
	return &models.IngestResult{
		OK:      true,
		Message: "Upserted",
		Chunks:  len(chunks),
		Source:  source,
	}, nil
}
