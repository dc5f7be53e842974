package routes

import (
	"errors"
	"net/http"
	"strings"

	"jarvis-rag-backend/internal/ai"
	"jarvis-rag-backend/internal/logger"
	"jarvis-rag-backend/internal/telemetry"
	"jarvis-rag-backend/models"
	"jarvis-rag-backend/services"
	"jarvis-rag-backend/utils"

	"github.com/gin-gonic/gin"
)

// SetupChatRoutes wires the conversational endpoint.
func SetupChatRoutes(router *gin.Engine, retrieval *services.RetrievalService, metrics *telemetry.Metrics) {
	router.POST("/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		if strings.TrimSpace(req.Message) == "" {
			utils.RespondWithBadRequest(c, "Message must not be empty", nil)
			return
		}

		result, err := retrieval.Answer(c.Request.Context(), req.Message, req.History)
		if err != nil {
			if errors.Is(err, ai.ErrLLMTimeout) {
				logger.Error("Chat model timed out", "error", err)
				utils.RespondWithGatewayTimeout(c, "The model took too long to answer. Please retry.")
				return
			}
			logger.Error("Chat turn failed", "error", err)
			utils.RespondWithBadGateway(c, "An upstream provider failed", gin.H{"error": err.Error()})
			return
		}

		if metrics != nil {
			metrics.RecordRetrieval(result.Latency.Seconds(), result.Retrieved)
		}

		c.JSON(http.StatusOK, models.ChatResponse{
			Answer:  result.Answer,
			Sources: result.Sources,
		})
	})
}
