package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/position"
	"github.com/survival-companion/backend-go/pkg/response"
)

// PositionHandler handles HTTP requests for the current position
type PositionHandler struct {
	source *position.Source
}

// NewPositionHandler creates a new position handler
func NewPositionHandler(source *position.Source) *PositionHandler {
	return &PositionHandler{source: source}
}

// GetPosition handles GET /api/v1/position
func (h *PositionHandler) GetPosition(c *gin.Context) {
	response.Success(c, h.source.Status())
}

// UpdatePosition handles PUT /api/v1/position
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	var req models.PositionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := position.ValidateUpdate(req); err != nil {
		respondError(c, err, nil)
		return
	}

	h.source.Apply(req)
	response.Success(c, h.source.Status())
}
