package models

import "time"

// Ingestion status values tracked in the document registry.
const (
	IngestStatusQueued    = "queued"
	IngestStatusCompleted = "completed"
	IngestStatusFailed    = "failed"
)

// IngestResult is the outcome of one ingestion call. OK is false for the
// empty-input case, which is an expected outcome rather than an error.
type IngestResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Chunks  int    `json:"chunk_count"`
	Source  string `json:"source,omitempty"`
}

// DocumentRecord is one row of the document registry: a source that has
// been ingested (or is queued for ingestion), with its last known state.
type DocumentRecord struct {
	Source     string    `json:"source" bson:"source"`
	ChunkCount int       `json:"chunk_count" bson:"chunk_count"`
	Status     string    `json:"status" bson:"status"`
	Error      string    `json:"error,omitempty" bson:"error,omitempty"`
	IngestedAt time.Time `json:"ingested_at" bson:"ingested_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}
