package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"dandi.backend/internal/domain/entities"
	"dandi.backend/internal/interfaces/http/response"
	"dandi.backend/internal/usecases"
)

type SummaryHandler struct {
	summaryUsecase *usecases.SummaryUsecase
}

func NewSummaryHandler(summaryUsecase *usecases.SummaryUsecase) *SummaryHandler {
	return &SummaryHandler{
		summaryUsecase: summaryUsecase,
	}
}

// SummarizeRepository runs the summary pipeline for the GitHub URL in the
// request body. Key validation already happened in the api-key middleware.
func (h *SummaryHandler) SummarizeRepository(c *gin.Context) {
	var input entities.SummarizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "GitHub URL is required"})
		return
	}
	if input.GitHubURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "GitHub URL is required"})
		return
	}

	summary, err := h.summaryUsecase.Summarize(c.Request.Context(), input.GitHubURL)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}
