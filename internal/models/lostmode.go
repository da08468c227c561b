package models

import (
	"time"

	"github.com/survival-companion/backend-go/internal/spatial"
)

// BacktrackTarget is the next reversed trail point to walk toward
type BacktrackTarget struct {
	Index            int                     `json:"index"`
	Point            TrailPoint              `json:"point"`
	DistanceMeters   float64                 `json:"distance_meters"`
	Distance         spatial.DistanceDisplay `json:"distance"`
	BearingDegrees   float64                 `json:"bearing_degrees"`
	BearingDirection string                  `json:"bearing_direction"`
}

// BacktrackRoute is the candidate trail reversed, computed at activation
type BacktrackRoute struct {
	TrailID      int64            `json:"trail_id"`
	TrailName    string           `json:"trail_name"`
	Recording    bool             `json:"recording"`
	PointCount   int              `json:"point_count"`
	NearestIndex int              `json:"nearest_index"`
	Next         *BacktrackTarget `json:"next"`
}

// LostModeActivation is the transient record of when lost mode was entered
type LostModeActivation struct {
	ActivatedAt        time.Time       `json:"activated_at"`
	Position           Position        `json:"position"`
	BacktrackAvailable bool            `json:"backtrack_available"`
	Route              *BacktrackRoute `json:"backtrack_route,omitempty"`
	Suggestion         string          `json:"suggestion,omitempty"`
	Guidance           []string        `json:"guidance"`
	SafetyTips         []string        `json:"safety_tips"`
}

// LostModeReport is returned by activate
type LostModeReport struct {
	LostModeActivation
	Active           bool               `json:"active"`
	NearestWaypoints []WaypointDistance `json:"nearest_waypoints"`
}

// LostModeStatus is the live view while lost mode is active
type LostModeStatus struct {
	Active             bool               `json:"active"`
	ActivatedAt        *time.Time         `json:"activated_at,omitempty"`
	ElapsedSeconds     float64            `json:"elapsed_seconds,omitempty"`
	Position           *Position          `json:"position,omitempty"`
	NearestWaypoints   []WaypointDistance `json:"nearest_waypoints,omitempty"`
	BacktrackAvailable bool               `json:"backtrack_available"`
	Route              *BacktrackRoute    `json:"backtrack_route,omitempty"`
	Guidance           []string           `json:"guidance,omitempty"`
	SafetyTips         []string           `json:"safety_tips,omitempty"`
}

// BacktrackPoint is a reversed trail point with live distance from the current position.
// Index is the position in the reversed sequence, OriginalIndex in the recorded one.
type BacktrackPoint struct {
	Index            int                     `json:"index"`
	OriginalIndex    int                     `json:"original_index"`
	Point            TrailPoint              `json:"point"`
	DistanceMeters   float64                 `json:"distance_meters"`
	Distance         spatial.DistanceDisplay `json:"distance"`
	BearingDegrees   float64                 `json:"bearing_degrees"`
	BearingDirection string                  `json:"bearing_direction"`
	IsNearest        bool                    `json:"is_nearest"`
}

// BacktrackResult lists the reversed trail; Success is false when no trail exists
type BacktrackResult struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message,omitempty"`
	TrailID      int64            `json:"trail_id,omitempty"`
	TrailName    string           `json:"trail_name,omitempty"`
	Position     *Position        `json:"position,omitempty"`
	NearestIndex int              `json:"nearest_index"`
	Points       []BacktrackPoint `json:"points,omitempty"`
}

// LostModeDeactivation reports how long lost mode was active
type LostModeDeactivation struct {
	WasActive      bool    `json:"was_active"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}
