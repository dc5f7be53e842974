package models

// ChunkMetadata is stored alongside each vector in the index and mirrored
// back on every retrieval match.
type ChunkMetadata struct {
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	IngestedAt int64  `json:"ingested_at"`
}

// ChunkRecord is the persisted form of a chunk. ID is derived from
// (source, chunk_index, text), so re-ingesting identical content produces
// the same record and the upsert overwrites instead of duplicating.
type ChunkRecord struct {
	ID       string        `json:"id"`
	Vector   []float32     `json:"values"`
	Metadata ChunkMetadata `json:"metadata"`
}

// RetrievalMatch is one scored result of a vector query. Metadata is kept
// untyped because the index may hold records written by other tools with
// missing or extra fields; the context assembler defaults what it needs.
type RetrievalMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}
