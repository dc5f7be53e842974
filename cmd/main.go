package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jarvis-rag-backend/internal/ai"
	"jarvis-rag-backend/internal/config"
	"jarvis-rag-backend/internal/logger"
	"jarvis-rag-backend/internal/telemetry"
	"jarvis-rag-backend/internal/vectorstore/pinecone"
	"jarvis-rag-backend/middleware"
	"jarvis-rag-backend/routes"
	"jarvis-rag-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing and metrics
	shutdownTracer, err := telemetry.InitTracer("jarvis-rag-backend")
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
		shutdownTracer = func() {}
	}
	defer shutdownTracer()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Metrics disabled", "error", err)
	}

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

	// Connect to Redis
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// AI providers
	ctx := context.Background()
	embedder, err := ai.BuildEmbedder(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedder:", err)
	}
	chatModel, err := ai.BuildChatModel(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize chat model:", err)
	}

	cachedEmbedder := services.NewCachedEmbedder(embedder, rdb,
		time.Duration(cfg.EmbedCacheTTLHours)*time.Hour)

	// Vector store
	store := pinecone.NewClient(pinecone.Config{
		IndexHost: cfg.PineconeIndexHost,
		APIKey:    cfg.PineconeAPIKey,
	})

	// Services
	db := mongoClient.Database(cfg.DBName)
	registry := services.NewRegistryService(db)
	ingestion := services.NewIngestionService(cfg, cachedEmbedder, store, registry)
	retrieval := services.NewRetrievalService(cfg, cachedEmbedder, store, chatModel)

	// Task queue client for large uploads
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer queueClient.Close()

	// Background index stats
	stats := services.NewStatsService(store, cfg.StatsIntervalMinutes)
	if err := stats.Start(); err != nil {
		logger.Warn("Stats job not scheduled", "error", err)
	}
	defer stats.Stop()

	// Router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	routes.SetupChatRoutes(router, retrieval, metrics)
	routes.SetupIngestRoutes(router, cfg, ingestion, registry, queueClient, metrics)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
