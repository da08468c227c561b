package models

import (
	"time"

	"github.com/survival-companion/backend-go/internal/spatial"
)

// Waypoint is a named location saved by the user
type Waypoint struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
	Notes     string    `json:"notes"`
	Category  string    `json:"category"`
	Geohash   string    `json:"geohash"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Waypoint categories
const (
	CategoryCamp     = "camp"
	CategoryWater    = "water"
	CategoryShelter  = "shelter"
	CategoryDanger   = "danger"
	CategoryResource = "resource"
	CategoryLandmark = "landmark"
	CategoryOther    = "other"
)

// WaypointCategories lists the accepted category tags
var WaypointCategories = []string{
	CategoryCamp, CategoryWater, CategoryShelter, CategoryDanger,
	CategoryResource, CategoryLandmark, CategoryOther,
}

// CreateWaypointRequest creates a waypoint; omitted coordinates default to the current position
type CreateWaypointRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
	Notes     string   `json:"notes"`
	Category  string   `json:"category"`
}

// MarkWaypointRequest drops a waypoint at the current position
type MarkWaypointRequest struct {
	Name     string `json:"name"`
	Notes    string `json:"notes"`
	Category string `json:"category"`
}

// UpdateWaypointRequest carries only the fields to change
type UpdateWaypointRequest struct {
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
	Notes     *string  `json:"notes"`
	Category  *string  `json:"category"`
}

// WaypointDistance is a waypoint annotated with its distance and bearing from a position
type WaypointDistance struct {
	Waypoint
	DistanceMeters   float64                 `json:"distance_meters"`
	Distance         spatial.DistanceDisplay `json:"distance"`
	BearingDegrees   float64                 `json:"bearing_degrees"`
	BearingDirection string                  `json:"bearing_direction"`
}

// WaypointResult is a waypoint mutation outcome with its durability flag
type WaypointResult struct {
	Waypoint  Waypoint `json:"waypoint"`
	Persisted bool     `json:"persisted"`
}
