package models

import "time"

// EmergencyStatus is the state of the SOS beacon
type EmergencyStatus struct {
	Active         bool       `json:"active"`
	ActivatedAt    *time.Time `json:"activated_at,omitempty"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
	Position       Position   `json:"position"`
	Message        string     `json:"message"`
}
