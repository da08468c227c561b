package service

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/internal/apperror"
	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/spatial"
	"github.com/survival-companion/backend-go/pkg/logger"
)

const msgNoActiveNavigation = "No active navigation"

// WaypointLookup resolves a waypoint by id
type WaypointLookup interface {
	Get(id int64) (models.Waypoint, error)
}

// NavigationService tracks at most one navigate-to target.
// Guidance is recomputed from the live position on every call.
type NavigationService struct {
	mu            sync.Mutex
	waypoints     WaypointLookup
	position      PositionReader
	arrivalRadius float64
	log           *logger.Logger
	now           func() time.Time
	target        *models.NavigationTarget
}

// NewNavigationService creates an inactive tracker
func NewNavigationService(waypoints WaypointLookup, position PositionReader, arrivalRadiusMeters float64, log *logger.Logger) *NavigationService {
	return &NavigationService{
		waypoints:     waypoints,
		position:      position,
		arrivalRadius: arrivalRadiusMeters,
		log:           log.WithComponent("navigation_service"),
		now:           time.Now,
	}
}

// NavigateTo replaces any current target with the waypoint and returns the first snapshot
func (s *NavigationService) NavigateTo(waypointID int64) (models.NavigationStatus, error) {
	wp, err := s.waypoints.Get(waypointID)
	if err != nil {
		return models.NavigationStatus{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target != nil && s.target.WaypointID != waypointID {
		s.log.Info("Navigation target replaced",
			zap.Int64("previous_waypoint_id", s.target.WaypointID),
			zap.Int64("waypoint_id", waypointID),
		)
	}
	s.target = &models.NavigationTarget{WaypointID: waypointID, StartedAt: s.now()}

	status := s.guidance(wp)
	s.log.Info("Navigation started",
		zap.Int64("waypoint_id", wp.ID),
		zap.String("name", wp.Name),
		zap.Float64("distance_m", status.DistanceMeters),
	)
	return status, nil
}

// Status recomputes distance, bearing, turn direction and arrival.
// A target whose waypoint was deleted is cleared.
func (s *NavigationService) Status() models.NavigationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return models.NavigationStatus{Active: false, Message: msgNoActiveNavigation}
	}

	wp, err := s.waypoints.Get(s.target.WaypointID)
	if err != nil {
		id := s.target.WaypointID
		s.target = nil
		if !apperror.IsNotFound(err) {
			s.log.Error("Failed to resolve navigation target", zap.Int64("waypoint_id", id), zap.Error(err))
		} else {
			s.log.Warn("Navigation target was deleted", zap.Int64("waypoint_id", id))
		}
		return models.NavigationStatus{
			Active:  false,
			Message: fmt.Sprintf("Target waypoint %d no longer exists; navigation stopped", id),
		}
	}

	return s.guidance(wp)
}

// guidance computes live guidance toward wp. Caller holds s.mu with a target set.
func (s *NavigationService) guidance(wp models.Waypoint) models.NavigationStatus {
	pos := s.position.Current()
	now := s.now()

	d := spatial.HaversineDistance(pos.Latitude, pos.Longitude, wp.Latitude, wp.Longitude)
	b := spatial.Bearing(pos.Latitude, pos.Longitude, wp.Latitude, wp.Longitude)
	rel := spatial.RelativeBearing(b, pos.Heading)
	display := spatial.FormatDistance(d)
	started := s.target.StartedAt

	return models.NavigationStatus{
		Active:           true,
		Target:           &wp,
		Position:         &pos,
		DistanceMeters:   d,
		Distance:         &display,
		BearingDegrees:   b,
		BearingDirection: spatial.CompassLabel(b),
		RelativeBearing:  rel,
		TurnDirection:    spatial.TurnDirection(rel),
		Arrived:          d < s.arrivalRadius,
		StartedAt:        &started,
		ElapsedSeconds:   now.Sub(started).Seconds(),
	}
}

// Stop clears the target; stopping while inactive is a no-op reported in the result
func (s *NavigationService) Stop() models.NavigationStopResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return models.NavigationStopResult{Stopped: false, Message: msgNoActiveNavigation}
	}

	target := *s.target
	s.target = nil
	elapsed := s.now().Sub(target.StartedAt).Seconds()

	s.log.Info("Navigation stopped", zap.Int64("waypoint_id", target.WaypointID), zap.Float64("elapsed_s", elapsed))
	return models.NavigationStopResult{
		Stopped:        true,
		Message:        "Navigation stopped",
		WaypointID:     target.WaypointID,
		ElapsedSeconds: elapsed,
	}
}
