package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/survival-companion/backend-go/internal/service"
	"github.com/survival-companion/backend-go/pkg/response"
)

// EmergencyHandler handles HTTP requests for the SOS beacon
type EmergencyHandler struct {
	service *service.EmergencyService
}

// NewEmergencyHandler creates a new emergency handler
func NewEmergencyHandler(service *service.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{service: service}
}

// ActivateEmergency handles POST /api/v1/emergency/activate
func (h *EmergencyHandler) ActivateEmergency(c *gin.Context) {
	response.Success(c, h.service.Activate())
}

// GetEmergencyStatus handles GET /api/v1/emergency/status
func (h *EmergencyHandler) GetEmergencyStatus(c *gin.Context) {
	response.Success(c, h.service.Status())
}

// DeactivateEmergency handles POST /api/v1/emergency/deactivate
func (h *EmergencyHandler) DeactivateEmergency(c *gin.Context) {
	response.Success(c, h.service.Deactivate())
}
