package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"jarvis-rag-backend/internal/logger"
	"jarvis-rag-backend/services"
)

const TaskIngestDocument = "ingest:document"

type IngestDocumentPayload struct {
	Source   string `json:"source"`
	FilePath string `json:"file_path"`
}

// NewIngestDocumentTask enqueues ingestion of a file already staged on
// disk. Large uploads go through this path so the HTTP handler can
// return immediately.
func NewIngestDocumentTask(source, filePath string) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestDocumentPayload{
		Source:   source,
		FilePath: filePath,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskIngestDocument,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("critical"),
	), nil
}

// TaskProcessor holds the worker-side dependencies for ingestion tasks.
type TaskProcessor struct {
	ingestion *services.IngestionService
	registry  *services.RegistryService
}

func NewTaskProcessor(ingestion *services.IngestionService, registry *services.RegistryService) *TaskProcessor {
	return &TaskProcessor{ingestion: ingestion, registry: registry}
}

// ProcessIngestDocument extracts text from the staged file and runs the
// full ingestion pipeline. The staged file is removed once ingestion
// succeeds or permanently fails; transient failures keep it for the
// retry.
func (p *TaskProcessor) ProcessIngestDocument(ctx context.Context, t *asynq.Task) error {
	var payload IngestDocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	logger.Info("Processing ingestion task", "source", payload.Source, "path", payload.FilePath)

	content, err := os.ReadFile(payload.FilePath)
	if err != nil {
		p.registry.MarkFailed(ctx, payload.Source, err)
		// The staged file is gone; retrying cannot help.
		return fmt.Errorf("read staged file: %v: %w", err, asynq.SkipRetry)
	}

	text, err := services.ExtractText(payload.Source, content)
	if err != nil {
		p.registry.MarkFailed(ctx, payload.Source, err)
		os.Remove(payload.FilePath)
		// Extraction is deterministic; a corrupt file stays corrupt.
		return fmt.Errorf("extract text: %v: %w", err, asynq.SkipRetry)
	}

	result, err := p.ingestion.Ingest(ctx, text, payload.Source)
	if err != nil {
		// Transient upstream failure: keep the staged file and retry.
		return fmt.Errorf("ingest %s: %w", payload.Source, err)
	}
	if !result.OK {
		p.registry.MarkFailed(ctx, payload.Source, fmt.Errorf("%s", result.Message))
		os.Remove(payload.FilePath)
		return fmt.Errorf("ingest %s: %s: %w", payload.Source, result.Message, asynq.SkipRetry)
	}

	os.Remove(payload.FilePath)
	logger.Info("Ingestion task completed", "source", payload.Source, "chunks", result.Chunks)
	return nil
}
