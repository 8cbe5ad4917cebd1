package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"dandi.backend/internal/domain/entities"
	"dandi.backend/internal/interfaces/http/middleware"
	"dandi.backend/internal/usecases"
)

type ValidateKeyHandler struct {
	apiKeyUsecase *usecases.ApiKeyUsecase
}

func NewValidateKeyHandler(apiKeyUsecase *usecases.ApiKeyUsecase) *ValidateKeyHandler {
	return &ValidateKeyHandler{
		apiKeyUsecase: apiKeyUsecase,
	}
}

// ValidateKey validates the key presented in the X-API-Key header and
// reports quota status. A successful validation counts against the quota.
func (h *ValidateKeyHandler) ValidateKey(c *gin.Context) {
	presented := c.GetHeader(middleware.APIKeyHeader)

	result := h.apiKeyUsecase.Validate(c.Request.Context(), presented)
	switch result.Status {
	case entities.ValidationValid:
		c.JSON(http.StatusOK, gin.H{
			"valid":   true,
			"message": "Valid API key",
			"keyData": result.KeyData,
		})
	case entities.ValidationMissingKey:
		c.JSON(http.StatusBadRequest, gin.H{
			"valid":   false,
			"message": "API key is required",
		})
	case entities.ValidationQuotaExceeded:
		c.JSON(http.StatusUnauthorized, gin.H{
			"valid":   false,
			"message": "API key has exceeded its monthly limit",
		})
	case entities.ValidationStoreError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"valid":   false,
			"message": "Error validating API key",
		})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{
			"valid":   false,
			"message": "Invalid API key",
		})
	}
}
