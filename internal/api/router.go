package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/survival-companion/backend-go/internal/handler"
	"github.com/survival-companion/backend-go/internal/middleware"
	"github.com/survival-companion/backend-go/pkg/auth"
	"github.com/survival-companion/backend-go/pkg/logger"
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Health     *handler.HealthHandler
	Position   *handler.PositionHandler
	Waypoint   *handler.WaypointHandler
	Trail      *handler.TrailHandler
	Navigation *handler.NavigationHandler
	LostMode   *handler.LostModeHandler
	Emergency  *handler.EmergencyHandler
	Stream     *handler.StreamHandler
	Auth       *handler.AuthHandler // nil when device auth is disabled
}

// Options holds the cross-cutting router settings
type Options struct {
	Logger      *logger.Logger
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	JWT         *auth.JWTService        // nil disables device auth
}

// SetupRouter builds the gin engine with every route mounted
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(opts.Logger), middleware.Recovery(opts.Logger))

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter, opts.Logger))
	}

	r.GET("/health", h.Health.Health)

	api := r.Group("/api/v1")

	if opts.JWT != nil && h.Auth != nil {
		api.POST("/auth/token", h.Auth.IssueToken)
		api.Use(middleware.Auth(opts.JWT, opts.Logger))
	}

	{
		pos := api.Group("/position")
		{
			pos.GET("", h.Position.GetPosition)
			pos.PUT("", h.Position.UpdatePosition)
		}

		waypoints := api.Group("/waypoints")
		{
			waypoints.GET("", h.Waypoint.GetWaypoints)
			waypoints.POST("", h.Waypoint.CreateWaypoint)
			waypoints.GET("/distances", h.Waypoint.GetWaypointDistances)
			waypoints.POST("/mark", h.Waypoint.MarkWaypoint)
			waypoints.GET("/:id", h.Waypoint.GetWaypointByID)
			waypoints.PUT("/:id", h.Waypoint.UpdateWaypoint)
			waypoints.DELETE("/:id", h.Waypoint.DeleteWaypoint)
		}

		trails := api.Group("/trails")
		{
			trails.GET("", h.Trail.GetTrails)
			trails.POST("/start", h.Trail.StartTrail)
			trails.GET("/status", h.Trail.GetTrailStatus)
			trails.POST("/stop", h.Trail.StopTrail)
			trails.GET("/:id", h.Trail.GetTrailByID)
			trails.DELETE("/:id", h.Trail.DeleteTrail)
			trails.GET("/:id/gpx", h.Trail.ExportTrailGPX)
		}

		nav := api.Group("/navigation")
		{
			nav.POST("/start", h.Navigation.StartNavigation)
			nav.GET("/status", h.Navigation.GetNavigationStatus)
			nav.POST("/stop", h.Navigation.StopNavigation)
		}

		lost := api.Group("/lost-mode")
		{
			lost.POST("/activate", h.LostMode.ActivateLostMode)
			lost.GET("/status", h.LostMode.GetLostModeStatus)
			lost.GET("/backtrack", h.LostMode.GetBacktrack)
			lost.POST("/deactivate", h.LostMode.DeactivateLostMode)
		}

		emergency := api.Group("/emergency")
		{
			emergency.POST("/activate", h.Emergency.ActivateEmergency)
			emergency.GET("/status", h.Emergency.GetEmergencyStatus)
			emergency.POST("/deactivate", h.Emergency.DeactivateEmergency)
		}

		api.GET("/stream", h.Stream.Stream)
	}

	return r
}
