package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/survival-companion/backend-go/internal/position"
	"github.com/survival-companion/backend-go/internal/service"
)

// HealthHandler reports liveness plus a one-line view of device state
type HealthHandler struct {
	source    *position.Source
	trails    *service.TrailService
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(source *position.Source, trails *service.TrailService) *HealthHandler {
	return &HealthHandler{source: source, trails: trails, startedAt: time.Now()}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.source.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"message":        "Survival companion navigation backend is running",
		"uptime_seconds": time.Since(h.startedAt).Seconds(),
		"tracking":       status.Tracking,
		"has_fix":        status.HasFix,
		"recording":      h.trails.IsRecording(),
	})
}
