package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/pkg/auth"
	"github.com/survival-companion/backend-go/pkg/logger"
	"github.com/survival-companion/backend-go/pkg/response"
)

// DeviceIDKey is the gin context key holding the authenticated device id
const DeviceIDKey = "device_id"

// Auth requires a valid "Bearer" device token
func Auth(jwtService *auth.JWTService, log *logger.Logger) gin.HandlerFunc {
	l := log.WithComponent("auth-middleware")

	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c, "Authorization token required")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			l.Debug("Rejected device token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(DeviceIDKey, claims.DeviceID)
		c.Next()
	}
}

// bearerToken reads the token from the Authorization header, falling back to
// the access_token query parameter for websocket clients that cannot set headers
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("access_token")
}
