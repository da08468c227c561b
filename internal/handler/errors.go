package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/survival-companion/backend-go/internal/apperror"
	"github.com/survival-companion/backend-go/pkg/response"
)

// respondError maps a service error onto the response envelope.
// State conflicts are expected user-flow conditions and go out as soft failures
// carrying data so the client can see the current state.
func respondError(c *gin.Context, err error, data interface{}) {
	switch {
	case apperror.IsValidation(err):
		response.BadRequest(c, err.Error())
	case apperror.IsNotFound(err):
		response.NotFound(c, err.Error())
	case apperror.IsStateConflict(err):
		response.SoftFailure(c, err.Error(), data)
	default:
		_ = c.Error(err)
		response.InternalError(c, "Internal server error")
	}
}

// parseID reads the :id path parameter, writing a 400 when it is malformed
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// bindOptionalJSON binds the request body when one is present
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}
