package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/service"
	"github.com/survival-companion/backend-go/pkg/response"
)

const gpxContentType = "application/gpx+xml"

// TrailHandler handles HTTP requests for breadcrumb trails
type TrailHandler struct {
	service *service.TrailService
}

// NewTrailHandler creates a new trail handler
func NewTrailHandler(service *service.TrailService) *TrailHandler {
	return &TrailHandler{service: service}
}

// StartTrail handles POST /api/v1/trails/start
func (h *TrailHandler) StartTrail(c *gin.Context) {
	var req models.StartTrailRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	summary, err := h.service.Start(req.Name)
	if err != nil {
		respondError(c, err, h.service.Status())
		return
	}
	response.Created(c, summary)
}

// GetTrailStatus handles GET /api/v1/trails/status
func (h *TrailHandler) GetTrailStatus(c *gin.Context) {
	response.Success(c, h.service.Status())
}

// StopTrail handles POST /api/v1/trails/stop
func (h *TrailHandler) StopTrail(c *gin.Context) {
	result, err := h.service.Stop()
	if err != nil {
		respondError(c, err, h.service.Status())
		return
	}
	response.Success(c, result)
}

// GetTrails handles GET /api/v1/trails
func (h *TrailHandler) GetTrails(c *gin.Context) {
	trails := h.service.List()
	response.Success(c, gin.H{
		"trails": trails,
		"total":  len(trails),
	})
}

// GetTrailByID handles GET /api/v1/trails/:id
func (h *TrailHandler) GetTrailByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	trail, err := h.service.Get(id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	response.Success(c, trail)
}

// DeleteTrail handles DELETE /api/v1/trails/:id
func (h *TrailHandler) DeleteTrail(c *gin.Context) {
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

// ExportTrailGPX handles GET /api/v1/trails/:id/gpx
func (h *TrailHandler) ExportTrailGPX(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	data, err := h.service.ExportGPX(id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="trail-%d.gpx"`, id))
	c.Data(http.StatusOK, gpxContentType, data)
}
