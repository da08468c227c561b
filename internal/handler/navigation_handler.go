package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/service"
	"github.com/survival-companion/backend-go/pkg/response"
)

// NavigationHandler handles HTTP requests for active navigation
type NavigationHandler struct {
	service *service.NavigationService
}

// NewNavigationHandler creates a new navigation handler
func NewNavigationHandler(service *service.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: service}
}

// StartNavigation handles POST /api/v1/navigation/start
func (h *NavigationHandler) StartNavigation(c *gin.Context) {
	var req models.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "waypoint_id is required")
		return
	}

	status, err := h.service.NavigateTo(req.WaypointID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	response.Success(c, status)
}

// GetNavigationStatus handles GET /api/v1/navigation/status
func (h *NavigationHandler) GetNavigationStatus(c *gin.Context) {
	response.Success(c, h.service.Status())
}

// StopNavigation handles POST /api/v1/navigation/stop
func (h *NavigationHandler) StopNavigation(c *gin.Context) {
	response.Success(c, h.service.Stop())
}
