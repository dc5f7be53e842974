package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	// Pinecone
	PineconeAPIKey    string
	PineconeIndexHost string
	PineconeNamespace string

	// Embeddings
	EmbeddingsProvider    string // "google" (default), "ollama"
	GeminiAPIKey          string
	GoogleEmbeddingsModel string
	OllamaEmbeddingsModel string

	// Chat model
	LLMProvider    string // "ollama" (default), "google"
	OllamaBaseURL  string
	OllamaModel    string
	GeminiModel    string
	LLMTimeoutSecs int

	// RAG pipeline
	ChunkSize        int
	ChunkOverlap     int
	TopK             int
	MaxContextChunks int
	HistoryWindow    int
	UpsertBatchSize  int

	// Uploads
	MaxFileSize         int64
	SyncProcessingLimit int64
	FileStorageDir      string

	// MongoDB (document registry)
	MongoURI string
	DBName   string

	// Redis (rate limiting, embedding cache, asynq)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	RateLimitReqs   int
	RateLimitWindow int

	EmbedCacheTTLHours   int
	StatsIntervalMinutes int
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8501"), ","),

		PineconeAPIKey:    getEnv("PINECONE_API_KEY", ""),
		PineconeIndexHost: getEnv("PINECONE_INDEX_HOST", ""),
		PineconeNamespace: getEnv("PINECONE_NAMESPACE", "default"),

		EmbeddingsProvider:    getEnv("EMBEDDINGS_PROVIDER", "google"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),
		OllamaEmbeddingsModel: getEnv("OLLAMA_EMBEDDINGS_MODEL", "nomic-embed-text"),

		LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
		OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3.1"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMTimeoutSecs: getEnvInt("LLM_TIMEOUT", 180),

		ChunkSize:        getEnvInt("CHUNK_SIZE", 900),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 150),
		TopK:             getEnvInt("TOP_K", 5),
		MaxContextChunks: getEnvInt("MAX_CONTEXT_CHUNKS", 5),
		HistoryWindow:    getEnvInt("HISTORY_WINDOW", 6),
		UpsertBatchSize:  getEnvInt("UPSERT_BATCH_SIZE", 100),

		MaxFileSize:         getEnvInt64("MAX_FILE_SIZE", 104857600), // 100MB
		SyncProcessingLimit: getEnvInt64("SYNC_PROCESSING_LIMIT", 20971520),
		FileStorageDir:      getEnv("FILE_STORAGE_DIR", "./storage"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/jarvis_rag"),
		DBName:   getEnv("DB_NAME", "jarvis_rag"),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		EmbedCacheTTLHours:   getEnvInt("EMBED_CACHE_TTL_HOURS", 72),
		StatsIntervalMinutes: getEnvInt("STATS_INTERVAL_MINUTES", 15),
	}

	// Validate required fields
	if cfg.PineconeAPIKey == "" {
		return nil, fmt.Errorf("PINECONE_API_KEY is required - set it in .env file")
	}

	if cfg.PineconeIndexHost == "" {
		return nil, fmt.Errorf("PINECONE_INDEX_HOST is required - set it in .env file")
	}

	if cfg.EmbeddingsProvider == "google" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when EMBEDDINGS_PROVIDER=google")
	}

	if cfg.LLMProvider == "google" && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=google")
	}

	// An overlap >= chunk size keeps the sliding window from advancing, so
	// invalid chunking parameters are rejected here instead of looping at
	// ingestion time.
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must satisfy 0 <= overlap < CHUNK_SIZE, got overlap=%d size=%d",
			cfg.ChunkOverlap, cfg.ChunkSize)
	}

	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be positive, got %d", cfg.TopK)
	}
	if cfg.MaxContextChunks <= 0 {
		return nil, fmt.Errorf("MAX_CONTEXT_CHUNKS must be positive, got %d", cfg.MaxContextChunks)
	}
	if cfg.HistoryWindow < 0 {
		return nil, fmt.Errorf("HISTORY_WINDOW must not be negative, got %d", cfg.HistoryWindow)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
