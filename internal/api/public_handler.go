package api

import (
	"context"
	"net/http"
	"time"

	"LetterHunt/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StorageProber checks blob store connectivity for the health
// endpoint.
type StorageProber interface {
	Healthy(ctx context.Context) error
}

// PublicHandler serves the read-only endpoints that need no role:
// winners board and health probes.
type PublicHandler struct {
	winners repository.WinnerRepository
	storage StorageProber
	logger  *logrus.Logger
}

// NewPublicHandler creates a PublicHandler. storage may be nil when no
// blob store is configured; the probe then reports unavailable.
func NewPublicHandler(winners repository.WinnerRepository, storage StorageProber, logger *logrus.Logger) *PublicHandler {
	return &PublicHandler{winners: winners, storage: storage, logger: logger}
}

// ListWinners lists winners newest first. GET /api/winners
func (h *PublicHandler) ListWinners(c *gin.Context) {
	list, err := h.winners.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("list winners failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Health is a liveness probe. GET /api/health
func (h *PublicHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// StorageHealth probes blob store access. GET /api/storage/health
func (h *PublicHandler) StorageHealth(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "blob storage not configured"})
		return
	}
	if err := h.storage.Healthy(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("storage health check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "storage connection successful"})
}
