package models

import "time"

// Position is the current best-known fix reported by the GPS feed
type Position struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Altitude   float64   `json:"altitude"` // meters above sea level
	Accuracy   float64   `json:"accuracy"` // horizontal accuracy, meters
	Heading    float64   `json:"heading"`  // degrees from true north
	Speed      float64   `json:"speed"`    // meters per second
	Satellites int       `json:"satellites"`
	FixQuality string    `json:"fix_quality"` // none, 2d, 3d
	Timestamp  time.Time `json:"timestamp"`
}

// FixQuality constants
const (
	FixNone = "none"
	Fix2D   = "2d"
	Fix3D   = "3d"
)

// HasFix reports whether the position comes from a usable fix
func (p Position) HasFix() bool {
	return p.FixQuality == Fix2D || p.FixQuality == Fix3D
}

// PositionStatus is the position together with its freshness
type PositionStatus struct {
	Position   Position `json:"position"`
	AgeSeconds float64  `json:"age_seconds"`
	Tracking   bool     `json:"tracking"`
	HasFix     bool     `json:"has_fix"`
}

// PositionUpdate is a partial manual override of the current position
type PositionUpdate struct {
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Altitude   *float64 `json:"altitude"`
	Accuracy   *float64 `json:"accuracy"`
	Heading    *float64 `json:"heading"`
	Speed      *float64 `json:"speed"`
	Satellites *int     `json:"satellites"`
	FixQuality *string  `json:"fix_quality"`
}

// Apply copies the supplied fields onto p
func (u PositionUpdate) Apply(p Position) Position {
	if u.Latitude != nil {
		p.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		p.Longitude = *u.Longitude
	}
	if u.Altitude != nil {
		p.Altitude = *u.Altitude
	}
	if u.Accuracy != nil {
		p.Accuracy = *u.Accuracy
	}
	if u.Heading != nil {
		p.Heading = *u.Heading
	}
	if u.Speed != nil {
		p.Speed = *u.Speed
	}
	if u.Satellites != nil {
		p.Satellites = *u.Satellites
	}
	if u.FixQuality != nil {
		p.FixQuality = *u.FixQuality
	}
	return p
}
