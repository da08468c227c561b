package models

import (
	"time"

	"github.com/survival-companion/backend-go/internal/spatial"
)

// NavigationTarget references the waypoint being navigated to.
// Only the id is held; coordinates are re-read on every status call.
type NavigationTarget struct {
	WaypointID int64     `json:"waypoint_id"`
	StartedAt  time.Time `json:"started_at"`
}

// NavigateRequest starts navigation to a waypoint
type NavigateRequest struct {
	WaypointID int64 `json:"waypoint_id" binding:"required"`
}

// NavigationStatus is the live guidance toward the target
type NavigationStatus struct {
	Active           bool                     `json:"active"`
	Message          string                   `json:"message,omitempty"`
	Target           *Waypoint                `json:"target,omitempty"`
	Position         *Position                `json:"position,omitempty"`
	DistanceMeters   float64                  `json:"distance_meters"`
	Distance         *spatial.DistanceDisplay `json:"distance,omitempty"`
	BearingDegrees   float64                  `json:"bearing_degrees"`
	BearingDirection string                   `json:"bearing_direction,omitempty"`
	RelativeBearing  float64                  `json:"relative_bearing"`
	TurnDirection    string                   `json:"turn_direction,omitempty"`
	Arrived          bool                     `json:"arrived"`
	StartedAt        *time.Time               `json:"started_at,omitempty"`
	ElapsedSeconds   float64                  `json:"elapsed_seconds,omitempty"`
}

// NavigationStopResult reports whether a stop cleared a target
type NavigationStopResult struct {
	Stopped        bool    `json:"stopped"`
	Message        string  `json:"message"`
	WaypointID     int64   `json:"waypoint_id,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds,omitempty"`
}
