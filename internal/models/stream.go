package models

import "time"

// StreamFrame is one snapshot pushed to live-stream subscribers
type StreamFrame struct {
	Type       string           `json:"type"`
	ClientID   string           `json:"client_id"`
	Sequence   int64            `json:"sequence"`
	SentAt     time.Time        `json:"sent_at"`
	Position   PositionStatus   `json:"position"`
	Trail      TrailStatus      `json:"trail"`
	Navigation NavigationStatus `json:"navigation"`
	LostMode   *LostModeStatus  `json:"lost_mode,omitempty"` // only while lost mode is active
	Emergency  EmergencyStatus  `json:"emergency"`
}

// StreamFrameType is the type tag of periodic snapshot frames
const StreamFrameType = "snapshot"
