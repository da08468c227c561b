package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/survival-companion/backend-go/internal/service"
	"github.com/survival-companion/backend-go/pkg/response"
)

// LostModeHandler handles HTTP requests for lost mode
type LostModeHandler struct {
	service *service.LostModeService
}

// NewLostModeHandler creates a new lost-mode handler
func NewLostModeHandler(service *service.LostModeService) *LostModeHandler {
	return &LostModeHandler{service: service}
}

// ActivateLostMode handles POST /api/v1/lost-mode/activate
func (h *LostModeHandler) ActivateLostMode(c *gin.Context) {
	response.Success(c, h.service.Activate())
}

// GetLostModeStatus handles GET /api/v1/lost-mode/status
func (h *LostModeHandler) GetLostModeStatus(c *gin.Context) {
	response.Success(c, h.service.Status())
}

// GetBacktrack handles GET /api/v1/lost-mode/backtrack
func (h *LostModeHandler) GetBacktrack(c *gin.Context) {
	result := h.service.Backtrack()
	if !result.Success {
		response.SoftFailure(c, result.Message, result)
		return
	}
	response.Success(c, result)
}

// DeactivateLostMode handles POST /api/v1/lost-mode/deactivate
func (h *LostModeHandler) DeactivateLostMode(c *gin.Context) {
	response.Success(c, h.service.Deactivate())
}
