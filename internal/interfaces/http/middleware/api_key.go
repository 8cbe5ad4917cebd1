package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"dandi.backend/internal/domain/entities"
	"dandi.backend/internal/usecases"
)

const (
	// APIKeyHeader carries the bearer key on metered endpoints
	APIKeyHeader = "X-API-Key"
	// KeyDataKey is the context key for validated key data
	KeyDataKey = "apiKeyData"
)

// ApiKeyAuthMiddleware gates metered endpoints on key validation. A missing,
// unknown or exhausted key is refused with 401; a store failure with 500.
// On success the key data is stored in the request context.
func ApiKeyAuthMiddleware(apiKeyUsecase *usecases.ApiKeyUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(APIKeyHeader)

		result := apiKeyUsecase.Validate(c.Request.Context(), presented)
		switch result.Status {
		case entities.ValidationValid:
			c.Set(KeyDataKey, result.KeyData)
			c.Next()
		case entities.ValidationMissingKey:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "API key is required",
			})
		case entities.ValidationQuotaExceeded:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "API key has exceeded its monthly limit",
			})
		case entities.ValidationStoreError:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Error validating API key",
			})
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API key",
			})
		}
	}
}

// GetKeyData gets the validated key data from context
func GetKeyData(c *gin.Context) (*entities.KeyData, bool) {
	data, exists := c.Get(KeyDataKey)
	if !exists {
		return nil, false
	}
	return data.(*entities.KeyData), true
}
