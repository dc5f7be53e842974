package routes

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jarvis-rag-backend/internal/config"
	"jarvis-rag-backend/internal/logger"
	"jarvis-rag-backend/internal/queue"
	"jarvis-rag-backend/internal/telemetry"
	"jarvis-rag-backend/models"
	"jarvis-rag-backend/services"
	"jarvis-rag-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// SetupIngestRoutes wires document ingestion: synchronous upload for
// small files, queued processing for large ones, raw text ingestion, and
// the registry listing.
func SetupIngestRoutes(
	router *gin.Engine,
	cfg *config.Config,
	ingestion *services.IngestionService,
	registry *services.RegistryService,
	queueClient *asynq.Client,
	metrics *telemetry.Metrics,
) {
	ingest := router.Group("/ingest")

	ingest.POST("/upload", func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file provided", nil)
			return
		}
		defer file.Close()

		if header.Size > cfg.MaxFileSize {
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Sprintf("File exceeds the %d byte limit", cfg.MaxFileSize), nil)
			return
		}

		if !supportedUpload(header.Filename) {
			utils.RespondWithBadRequest(c,
				"Unsupported file type",
				gin.H{"supported": services.SupportedExtensions})
			return
		}

		source := filepath.Base(header.Filename)

		// Large files go through the worker so the request returns fast.
		if header.Size > cfg.SyncProcessingLimit {
			stagedPath, err := stageUpload(cfg.FileStorageDir, source, file)
			if err != nil {
				logger.Error("Failed to stage upload", "source", source, "error", err)
				utils.RespondWithInternalError(c, "Failed to store file for processing", nil)
				return
			}

			task, err := queue.NewIngestDocumentTask(source, stagedPath)
			if err != nil {
				os.Remove(stagedPath)
				utils.RespondWithInternalError(c, "Failed to create ingestion task", nil)
				return
			}
			if _, err := queueClient.Enqueue(task); err != nil {
				os.Remove(stagedPath)
				logger.Error("Failed to enqueue ingestion task", "source", source, "error", err)
				utils.RespondWithInternalError(c, "Failed to queue file for processing", nil)
				return
			}

			if err := registry.MarkQueued(c.Request.Context(), source); err != nil {
				logger.Warn("Failed to update document registry", "source", source, "error", err)
			}
			c.JSON(http.StatusAccepted, gin.H{
				"ok":      true,
				"message": "Queued for processing",
				"source":  source,
				"status":  models.IngestStatusQueued,
			})
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read file", nil)
			return
		}

		text, err := services.ExtractText(source, content)
		if err != nil {
			utils.RespondWithBadRequest(c, "Could not extract text from file", gin.H{"error": err.Error()})
			return
		}

		runIngestion(c, ingestion, metrics, text, source)
	})

	ingest.POST("/text", func(c *gin.Context) {
		var req struct {
			Text   string `json:"text" binding:"required"`
			Source string `json:"source"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		source := strings.TrimSpace(req.Source)
		if source == "" {
			source = "inline-" + uuid.New().String()[:8] + ".txt"
		}

		runIngestion(c, ingestion, metrics, req.Text, source)
	})

	ingest.GET("/documents", func(c *gin.Context) {
		documents, err := registry.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list documents", "error", err)
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"documents": documents,
			"count":     len(documents),
		})
	})
}

// runIngestion executes the synchronous pipeline and writes the response.
// The service reports empty extracted text as ok=false with no error; at
// the HTTP boundary that becomes a 400 with the empty_document code.
func runIngestion(c *gin.Context, ingestion *services.IngestionService, metrics *telemetry.Metrics, text, source string) {
	start := time.Now()

	result, err := ingestion.Ingest(c.Request.Context(), text, source)
	if err != nil {
		logger.Error("Ingestion failed", "source", source, "error", err)
		if metrics != nil {
			metrics.RecordIngestion(time.Since(start).Seconds(), 0, "error")
		}
		utils.RespondWithBadGateway(c, "Ingestion failed", gin.H{"error": err.Error()})
		return
	}

	if !result.OK {
		if metrics != nil {
			metrics.RecordIngestion(time.Since(start).Seconds(), 0, "empty")
		}
		utils.RespondWithError(c, http.StatusBadRequest, "empty_document",
			result.Message, gin.H{"source": source})
		return
	}

	if metrics != nil {
		metrics.RecordIngestion(time.Since(start).Seconds(), result.Chunks, "success")
	}

	c.JSON(http.StatusOK, result)
}

func supportedUpload(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range services.SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// stageUpload copies the file into the storage dir under a unique name so
// the async worker can pick it up after the request ends.
func stageUpload(dir, source string, file io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	stagedPath := filepath.Join(dir, uuid.New().String()+"_"+source)
	out, err := os.Create(stagedPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(stagedPath)
		return "", err
	}
	return stagedPath, nil
}
