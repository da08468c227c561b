package service

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/pkg/logger"
)

// EmergencyService is the SOS beacon. It broadcasts the live position while active.
type EmergencyService struct {
	mu          sync.Mutex
	position    PositionReader
	log         *logger.Logger
	now         func() time.Time
	activatedAt *time.Time
}

// NewEmergencyService creates an inactive beacon
func NewEmergencyService(position PositionReader, log *logger.Logger) *EmergencyService {
	return &EmergencyService{
		position: position,
		log:      log.WithComponent("emergency_service"),
		now:      time.Now,
	}
}

// Activate turns the beacon on; activating again keeps the original start time
func (s *EmergencyService) Activate() models.EmergencyStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activatedAt == nil {
		now := s.now()
		s.activatedAt = &now
		pos := s.position.Current()
		s.log.Warn("SOS beacon activated",
			zap.Float64("latitude", pos.Latitude),
			zap.Float64("longitude", pos.Longitude),
		)
	}
	return s.statusLocked()
}

// Status re-reads the live position
func (s *EmergencyService) Status() models.EmergencyStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// Deactivate turns the beacon off and reports how long it was on
func (s *EmergencyService) Deactivate() models.EmergencyStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.statusLocked()
	if s.activatedAt != nil {
		s.activatedAt = nil
		status.Active = false
		status.Message = "SOS beacon deactivated."
		s.log.Info("SOS beacon deactivated", zap.Float64("elapsed_s", status.ElapsedSeconds))
	}
	return status
}

func (s *EmergencyService) statusLocked() models.EmergencyStatus {
	pos := s.position.Current()
	if s.activatedAt == nil {
		return models.EmergencyStatus{Active: false, Position: pos, Message: "SOS beacon is off."}
	}
	activated := *s.activatedAt
	return models.EmergencyStatus{
		Active:         true,
		ActivatedAt:    &activated,
		ElapsedSeconds: s.now().Sub(activated).Seconds(),
		Position:       pos,
		Message: fmt.Sprintf("SOS beacon activated. Broadcasting position %.5f, %.5f.",
			pos.Latitude, pos.Longitude),
	}
}
