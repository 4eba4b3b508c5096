package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"social-relay/domain/dto"
	"social-relay/domain/model"
	"social-relay/infrastructure/cache"
	"social-relay/infrastructure/logger"
	"social-relay/usecase"
)

type ITokenHandler interface {
	Exchange(platform model.Platform) gin.HandlerFunc
}

type tokenHandler struct {
	exchangeUsecase usecase.IExchangeUsecase
	stateStore      cache.IStateStore
}

func NewTokenHandler(exchangeUsecase usecase.IExchangeUsecase, stateStore cache.IStateStore) ITokenHandler {
	return &tokenHandler{exchangeUsecase: exchangeUsecase, stateStore: stateStore}
}

// Exchange handles POST /{provider}/token. The route names the
// platform; a platform in the body must agree with it.
func (h *tokenHandler) Exchange(platform model.Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ExchangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while unmarshal")
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": err.Error()})
			return
		}
		if req.Platform == "" {
			req.Platform = string(platform)
		} else if req.Platform != string(platform) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": "platform does not match route"})
			return
		}
		if req.State != "" && h.stateStore != nil {
			if !h.stateStore.Consume(c.Request.Context(), req.State) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_state"})
				return
			}
		}

		_, raw, err := h.exchangeUsecase.Exchange(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": raw})
	}
}
