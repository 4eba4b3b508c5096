package http

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"social-relay/domain/model"
	"social-relay/domain/repository"
	"social-relay/infrastructure/cache"
	"social-relay/infrastructure/logger"
)

type IConnectHandler interface {
	GetAuthURL(c *gin.Context)
	Status(c *gin.Context)
}

type connectHandler struct {
	providers  map[model.Platform]repository.IProvider
	stateStore cache.IStateStore
	// credRepo is nil when the relay runs stateless.
	credRepo repository.ICredential
}

func NewConnectHandler(providers []repository.IProvider, stateStore cache.IStateStore, credRepo repository.ICredential) IConnectHandler {
	m := make(map[model.Platform]repository.IProvider, len(providers))
	for _, p := range providers {
		m[p.Platform()] = p
	}
	return &connectHandler{providers: m, stateStore: stateStore, credRepo: credRepo}
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// GetAuthURL builds the consent URL for GET /auth/{provider}. The user
// must approve in a browser; the issued state expires after ten
// minutes.
func (h *connectHandler) GetAuthURL(c *gin.Context) {
	platform, ok := model.ParsePlatform(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": "unknown provider"})
		return
	}
	provider, ok := h.providers[platform]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider not configured"})
		return
	}
	state := randomState()
	if err := h.stateStore.Put(c.Request.Context(), state); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed to store oauth state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": provider.AuthURL(state), "state": state})
}

// Status reports whether a credential is stored for the authenticated
// user on GET /api/{provider}/status.
func (h *connectHandler) Status(c *gin.Context) {
	platform, ok := model.ParsePlatform(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": "unknown provider"})
		return
	}
	if h.credRepo == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "reason": "credential store not configured"})
		return
	}
	userID := c.GetString("user_id")
	if userID == "" {
		userID = c.Query("userId")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "details": "missing userId"})
		return
	}
	cred, err := h.credRepo.GetCredential(c.Request.Context(), userID, platform)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("failed to read stored credential")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "persistence_failed", "details": err.Error()})
		return
	}
	res := gin.H{"connected": true}
	if cred.ExpiresAt != nil {
		res["expires_at"] = cred.ExpiresAt.Format(time.RFC3339)
		res["expired"] = cred.ExpiresAt.Before(time.Now())
	}
	c.JSON(http.StatusOK, res)
}
