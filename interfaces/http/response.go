package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"social-relay/domain/model"
)

// respondError converts the error taxonomy into the JSON envelope
// {error, details, status}. Provider status codes are forwarded so the
// caller sees what the platform answered.
func respondError(c *gin.Context, err error) {
	var (
		valErr     *model.ValidationError
		exchErr    *model.ProviderExchangeError
		pubErr     *model.ProviderPublishError
		pageErr    *model.MissingPageTokenError
		persistErr *model.PersistenceError
	)
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": valErr.Error()})
	case errors.As(err, &exchErr):
		c.JSON(forwardStatus(exchErr.StatusCode), gin.H{
			"error":   "token_exchange_failed",
			"details": exchErr.Body,
			"status":  exchErr.StatusCode,
		})
	case errors.As(err, &pageErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "missing_page_token", "details": pageErr.Error()})
	case errors.As(err, &pubErr):
		c.JSON(forwardStatus(pubErr.StatusCode), gin.H{
			"error":   "publish_failed",
			"details": pubErr.Body,
			"status":  pubErr.StatusCode,
			"step":    pubErr.Step,
		})
	case errors.As(err, &persistErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "persistence_failed", "details": persistErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "details": err.Error()})
	}
}

// forwardStatus keeps the upstream status when it is a usable HTTP
// code, falling back to 502 for transport-level failures recorded as 0.
func forwardStatus(status int) int {
	if status >= 400 && status < 600 {
		return status
	}
	return http.StatusBadGateway
}
