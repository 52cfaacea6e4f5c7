package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendscope/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	categorizer port.Categorizer
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(categorizer port.Categorizer) *HealthHandler {
	return &HealthHandler{categorizer: categorizer}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.categorizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "categorizer not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
