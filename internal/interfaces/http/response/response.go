package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "dandi.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error translates a domain failure into a transport status code and a
// user-facing message. This is the only place that mapping happens.
func Error(c *gin.Context, err error) {
	if appErr, ok := err.(*domainerrors.AppError); ok {
		c.JSON(appErr.Code, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"error":   appErr.Message,
		})
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domainerrors.ErrInvalidRepositoryReference):
		status = http.StatusBadRequest
		message = "Invalid GitHub URL format"
	case errors.Is(err, domainerrors.ErrReadmeNotFound):
		status = http.StatusNotFound
		message = "README not found in repository"
	case errors.Is(err, domainerrors.ErrUpstreamFetchFailed):
		message = "Failed to fetch README"
	case errors.Is(err, domainerrors.ErrSummaryGenerationFailed):
		message = "Failed to generate valid summary"
	case errors.Is(err, domainerrors.ErrNotFound):
		status = http.StatusNotFound
		message = "resource not found"
	case errors.Is(err, domainerrors.ErrInvalidInput):
		status = http.StatusBadRequest
		message = "invalid input"
	case errors.Is(err, domainerrors.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "unauthorized"
	}

	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
		"error":   message,
	})
}
