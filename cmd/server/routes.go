package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"dandi.backend/internal/interfaces/http/handlers"
	"dandi.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	apiKeyHandler      *handlers.ApiKeyHandler
	validateKeyHandler *handlers.ValidateKeyHandler
	summaryHandler     *handlers.SummaryHandler
	sessionAuth        gin.HandlerFunc
	apiKeyAuth         gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key, X-Request-ID, Idempotency-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Key validation (public; the key itself is the credential)
		v1.POST("/validate-key", d.validateKeyHandler.ValidateKey)

		// Summarizer (metered via API key)
		v1.POST("/github-summarizer", d.apiKeyAuth, middleware.IdempotencyMiddleware(), d.summaryHandler.SummarizeRepository)

		// API key administration (dashboard session required)
		apiKeys := v1.Group("/api-keys")
		apiKeys.Use(d.sessionAuth)
		{
			apiKeys.POST("", d.apiKeyHandler.CreateApiKey)
			apiKeys.GET("", d.apiKeyHandler.ListApiKeys)
			apiKeys.GET("/:id", d.apiKeyHandler.GetApiKey)
			apiKeys.PUT("/:id", d.apiKeyHandler.UpdateApiKey)
			apiKeys.DELETE("/:id", d.apiKeyHandler.DeleteApiKey)
			apiKeys.POST("/:id/mark-used", d.apiKeyHandler.MarkUsed)
		}
	}
}
