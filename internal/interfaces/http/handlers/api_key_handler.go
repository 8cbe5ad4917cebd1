package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"dandi.backend/internal/domain/entities"
	"dandi.backend/internal/interfaces/http/response"
	"dandi.backend/internal/usecases"
	"dandi.backend/pkg/utils"
)

type ApiKeyHandler struct {
	apiKeyUsecase *usecases.ApiKeyUsecase
}

func NewApiKeyHandler(apiKeyUsecase *usecases.ApiKeyUsecase) *ApiKeyHandler {
	return &ApiKeyHandler{
		apiKeyUsecase: apiKeyUsecase,
	}
}

// CreateApiKey creates a new API key
func (h *ApiKeyHandler) CreateApiKey(c *gin.Context) {
	var input entities.CreateApiKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, err := h.apiKeyUsecase.CreateApiKey(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, key)
}

// ListApiKeys lists API keys, most recent first
func (h *ApiKeyHandler) ListApiKeys(c *gin.Context) {
	var pagination utils.PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params := utils.GetPaginationParams(pagination.Page, pagination.Limit)

	keys, totalCount, err := h.apiKeyUsecase.ListApiKeys(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": keys,
		"meta": utils.CalculateMeta(totalCount, params.Page, params.Limit),
	})
}

// GetApiKey returns a single API key by id
func (h *ApiKeyHandler) GetApiKey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API Key ID"})
		return
	}

	key, err := h.apiKeyUsecase.GetApiKey(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, key)
}

// UpdateApiKey edits name, description and monthly limit
func (h *ApiKeyHandler) UpdateApiKey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API Key ID"})
		return
	}

	var input entities.UpdateApiKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, err := h.apiKeyUsecase.UpdateApiKey(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, key)
}

// DeleteApiKey removes an API key permanently
func (h *ApiKeyHandler) DeleteApiKey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API Key ID"})
		return
	}

	if err := h.apiKeyUsecase.DeleteApiKey(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API Key deleted successfully"})
}

// MarkUsed stamps last_used_at when a key value is consumed outside the
// validation path
func (h *ApiKeyHandler) MarkUsed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API Key ID"})
		return
	}

	if err := h.apiKeyUsecase.MarkUsed(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API Key marked as used"})
}
