package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/service"
	"github.com/survival-companion/backend-go/pkg/response"
)

// WaypointHandler handles HTTP requests for waypoints
type WaypointHandler struct {
	service  *service.WaypointService
	position service.PositionReader
}

// NewWaypointHandler creates a new waypoint handler
func NewWaypointHandler(service *service.WaypointService, position service.PositionReader) *WaypointHandler {
	return &WaypointHandler{service: service, position: position}
}

// CreateWaypoint handles POST /api/v1/waypoints
func (h *WaypointHandler) CreateWaypoint(c *gin.Context) {
	var req models.CreateWaypointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Create(req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	response.Created(c, result)
}

// MarkWaypoint handles POST /api/v1/waypoints/mark
func (h *WaypointHandler) MarkWaypoint(c *gin.Context) {
	var req models.MarkWaypointRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.service.MarkHere(req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	response.Created(c, result)
}

// GetWaypoints handles GET /api/v1/waypoints
func (h *WaypointHandler) GetWaypoints(c *gin.Context) {
	waypoints := h.service.List()
	response.Success(c, gin.H{
		"waypoints": waypoints,
		"total":     len(waypoints),
	})
}

// GetWaypointDistances handles GET /api/v1/waypoints/distances
func (h *WaypointHandler) GetWaypointDistances(c *gin.Context) {
	pos := h.position.Current()
	waypoints := h.service.ListSortedByDistanceFrom(pos)
	response.Success(c, gin.H{
		"position":  pos,
		"waypoints": waypoints,
		"total":     len(waypoints),
	})
}

// GetWaypointByID handles GET /api/v1/waypoints/:id
func (h *WaypointHandler) GetWaypointByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	waypoint, err := h.service.Get(id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	response.Success(c, waypoint)
}

// UpdateWaypoint handles PUT /api/v1/waypoints/:id
func (h *WaypointHandler) UpdateWaypoint(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req models.UpdateWaypointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.Update(id, req)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	response.Success(c, result)
}

// DeleteWaypoint handles DELETE /api/v1/waypoints/:id
func (h *WaypointHandler) DeleteWaypoint(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.service.Delete(id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	response.Success(c, result)
}
