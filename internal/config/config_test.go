package config

import "testing"

// setRequiredEnv provides the minimum environment for LoadConfig to pass
// validation, using providers that need no API key.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PINECONE_API_KEY", "test-key")
	t.Setenv("PINECONE_INDEX_HOST", "test-index.svc.pinecone.io")
	t.Setenv("EMBEDDINGS_PROVIDER", "ollama")
	t.Setenv("LLM_PROVIDER", "ollama")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ChunkSize != 900 || cfg.ChunkOverlap != 150 {
		t.Fatalf("chunking defaults = %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 5 || cfg.MaxContextChunks != 5 || cfg.HistoryWindow != 6 {
		t.Fatalf("retrieval defaults = %d/%d/%d", cfg.TopK, cfg.MaxContextChunks, cfg.HistoryWindow)
	}
	if cfg.UpsertBatchSize != 100 {
		t.Fatalf("UpsertBatchSize = %d", cfg.UpsertBatchSize)
	}
	if cfg.PineconeNamespace != "default" {
		t.Fatalf("namespace = %q", cfg.PineconeNamespace)
	}
}

func TestLoadConfigMissingPineconeKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PINECONE_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("missing PINECONE_API_KEY must fail")
	}
}

func TestLoadConfigGoogleProviderRequiresKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMBEDDINGS_PROVIDER", "google")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("google provider without GEMINI_API_KEY must fail")
	}
}

func TestLoadConfigChunkingInvariants(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"zero chunk size", "CHUNK_SIZE", "0"},
		{"negative overlap", "CHUNK_OVERLAP", "-1"},
		{"overlap equals size", "CHUNK_OVERLAP", "900"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.key, tc.val)

			if _, err := LoadConfig(); err == nil {
				t.Fatalf("%s=%s must fail validation", tc.key, tc.val)
			}
		})
	}
}

func TestLoadConfigRetrievalBounds(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"zero top k", "TOP_K", "0"},
		{"negative max context chunks", "MAX_CONTEXT_CHUNKS", "-1"},
		{"zero max context chunks", "MAX_CONTEXT_CHUNKS", "0"},
		{"negative history window", "HISTORY_WINDOW", "-2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.key, tc.val)

			if _, err := LoadConfig(); err == nil {
				t.Fatalf("%s=%s must fail validation", tc.key, tc.val)
			}
		})
	}
}
