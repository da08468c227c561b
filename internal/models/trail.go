package models

import (
	"time"

	"github.com/survival-companion/backend-go/internal/spatial"
)

// TrailPoint is one recorded breadcrumb. Never modified after it is appended.
type TrailPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// TrailPointFromPosition snapshots a position as a trail point
func TrailPointFromPosition(p Position) TrailPoint {
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return TrailPoint{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Altitude:  p.Altitude,
		Accuracy:  p.Accuracy,
		Timestamp: ts,
	}
}

// Trail is a breadcrumb trail. EndedAt is nil while recording.
type Trail struct {
	ID                  int64        `json:"id"`
	Name                string       `json:"name"`
	StartedAt           time.Time    `json:"started_at"`
	EndedAt             *time.Time   `json:"ended_at"`
	Points              []TrailPoint `json:"points"`
	TotalDistanceMeters float64      `json:"total_distance_meters"`
	SkippedSamples      int          `json:"skipped_samples"`
}

// LastPoint returns the most recent point, or nil for an empty trail
func (t *Trail) LastPoint() *TrailPoint {
	if len(t.Points) == 0 {
		return nil
	}
	p := t.Points[len(t.Points)-1]
	return &p
}

// Clone returns a deep copy safe to hand out of a lock
func (t *Trail) Clone() Trail {
	c := *t
	c.Points = append([]TrailPoint(nil), t.Points...)
	if t.EndedAt != nil {
		ended := *t.EndedAt
		c.EndedAt = &ended
	}
	return c
}

// StartTrailRequest starts recording; Name is optional
type StartTrailRequest struct {
	Name string `json:"name"`
}

// TrailSummary describes a trail without its points
type TrailSummary struct {
	ID             int64                   `json:"id"`
	Name           string                  `json:"name"`
	StartedAt      time.Time               `json:"started_at"`
	EndedAt        *time.Time              `json:"ended_at,omitempty"`
	PointCount     int                     `json:"point_count"`
	DistanceMeters float64                 `json:"total_distance_meters"`
	Distance       spatial.DistanceDisplay `json:"total_distance"`
	LastPoint      *TrailPoint             `json:"last_point,omitempty"`
	ElapsedSeconds float64                 `json:"elapsed_seconds"`
	SkippedSamples int                     `json:"skipped_samples"`
}

// Summarize builds a summary; elapsed runs to now while the trail is still open
func (t *Trail) Summarize(now time.Time) TrailSummary {
	end := now
	if t.EndedAt != nil {
		end = *t.EndedAt
	}
	return TrailSummary{
		ID:             t.ID,
		Name:           t.Name,
		StartedAt:      t.StartedAt,
		EndedAt:        t.EndedAt,
		PointCount:     len(t.Points),
		DistanceMeters: t.TotalDistanceMeters,
		Distance:       spatial.FormatDistance(t.TotalDistanceMeters),
		LastPoint:      t.LastPoint(),
		ElapsedSeconds: end.Sub(t.StartedAt).Seconds(),
		SkippedSamples: t.SkippedSamples,
	}
}

// TrailStatus is the recorder state. Trail is nil while idle.
type TrailStatus struct {
	Recording bool          `json:"recording"`
	Trail     *TrailSummary `json:"trail,omitempty"`
}

// TrailResult is a recorder mutation outcome with its durability flag
type TrailResult struct {
	Trail     TrailSummary `json:"trail"`
	Persisted bool         `json:"persisted"`
}
