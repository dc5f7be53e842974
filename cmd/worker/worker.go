package main

import (
	"context"
	"log"
	"time"

	"jarvis-rag-backend/internal/ai"
	"jarvis-rag-backend/internal/config"
	"jarvis-rag-backend/internal/logger"
	"jarvis-rag-backend/internal/queue"
	"jarvis-rag-backend/internal/vectorstore/pinecone"
	"jarvis-rag-backend/services"

	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Connect to Redis for the embedding cache
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Same providers as the API so vectors land in one embedding space
	embedder, err := ai.BuildEmbedder(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedder:", err)
	}
	cachedEmbedder := services.NewCachedEmbedder(embedder, rdb,
		time.Duration(cfg.EmbedCacheTTLHours)*time.Hour)

	store := pinecone.NewClient(pinecone.Config{
		IndexHost: cfg.PineconeIndexHost,
		APIKey:    cfg.PineconeAPIKey,
	})

	db := mongoClient.Database(cfg.DBName)
	registry := services.NewRegistryService(db)
	ingestion := services.NewIngestionService(cfg, cachedEmbedder, store, registry)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			StrictPriority: true,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(ingestion, registry)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskIngestDocument, processor.ProcessIngestDocument)

	logger.Info("Starting ingestion worker", "concurrency", 10, "redis", cfg.RedisURL)
	if err := server.Run(mux); err != nil {
		log.Fatal("Worker failed:", err)
	}
}
