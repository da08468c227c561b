package service

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/spatial"
	"github.com/survival-companion/backend-go/pkg/logger"
)

const (
	msgNoTrail = "No breadcrumb trail available. Mark your current position as a waypoint before moving."

	stepStop    = "Stop. Stay calm, sit down if you can, and take stock of your surroundings, water and daylight."
	stepMark    = "Mark your current position as a waypoint before moving so you can always return to it."
	stepVisible = "Make yourself visible and audible: wear or lay out bright colors, use a whistle (three blasts) or a signal mirror."
)

var lostModeSafetyTips = []string{
	"Stay where you are if you are injured, exhausted or it is getting dark.",
	"Conserve water and energy; move during cooler hours.",
	"Three of anything (whistle blasts, fires, rock piles) is a recognized distress signal.",
	"Follow water downstream only if you have no trail or waypoint to return to.",
	"Keep the device charged: dim the screen and check position at intervals rather than continuously.",
}

// TrailSource returns the trail lost mode should reason about
type TrailSource interface {
	Latest() (trail models.Trail, recording bool, ok bool)
}

// NearestWaypointFinder lists the waypoints closest to a position
type NearestWaypointFinder interface {
	Nearest(pos models.Position, n int) []models.WaypointDistance
}

// LostModeService builds return guidance from the live position, saved waypoints
// and the most recent trail reversed. Only the activation record is kept.
type LostModeService struct {
	mu           sync.Mutex
	trails       TrailSource
	waypoints    NearestWaypointFinder
	position     PositionReader
	nearestCount int
	log          *logger.Logger
	now          func() time.Time
	activation   *models.LostModeActivation
}

// NewLostModeService creates an inactive planner
func NewLostModeService(trails TrailSource, waypoints NearestWaypointFinder, position PositionReader, nearestCount int, log *logger.Logger) *LostModeService {
	return &LostModeService{
		trails:       trails,
		waypoints:    waypoints,
		position:     position,
		nearestCount: nearestCount,
		log:          log.WithComponent("lostmode_service"),
		now:          time.Now,
	}
}

// Activate snapshots the position and computes nearby waypoints, the backtrack route and guidance
func (s *LostModeService) Activate() models.LostModeReport {
	pos := s.position.Current()
	now := s.now()
	nearest := s.waypoints.Nearest(pos, s.nearestCount)

	activation := models.LostModeActivation{
		ActivatedAt: now,
		Position:    pos,
		SafetyTips:  append([]string(nil), lostModeSafetyTips...),
	}

	trail, recording, ok := s.trails.Latest()
	if ok && len(trail.Points) > 0 {
		activation.BacktrackAvailable = true
		activation.Route = buildBacktrackRoute(trail, recording, pos)
	} else {
		activation.Suggestion = msgNoTrail
	}
	activation.Guidance = buildGuidance(activation.Route, nearest)

	s.mu.Lock()
	s.activation = &activation
	s.mu.Unlock()

	fields := []zap.Field{
		zap.Float64("latitude", pos.Latitude),
		zap.Float64("longitude", pos.Longitude),
		zap.Bool("backtrack_available", activation.BacktrackAvailable),
		zap.Int("nearby_waypoints", len(nearest)),
	}
	if activation.Route != nil {
		fields = append(fields, zap.Int64("trail_id", activation.Route.TrailID))
	}
	s.log.Warn("Lost mode activated", fields...)

	return models.LostModeReport{
		LostModeActivation: activation,
		Active:             true,
		NearestWaypoints:   nearest,
	}
}

// Status re-reads the position and recomputes nearby waypoints.
// Route and guidance stay as computed at activation.
func (s *LostModeService) Status() models.LostModeStatus {
	s.mu.Lock()
	activation := s.activation
	s.mu.Unlock()

	if activation == nil {
		return models.LostModeStatus{Active: false}
	}

	pos := s.position.Current()
	activatedAt := activation.ActivatedAt
	return models.LostModeStatus{
		Active:             true,
		ActivatedAt:        &activatedAt,
		ElapsedSeconds:     s.now().Sub(activatedAt).Seconds(),
		Position:           &pos,
		NearestWaypoints:   s.waypoints.Nearest(pos, s.nearestCount),
		BacktrackAvailable: activation.BacktrackAvailable,
		Route:              activation.Route,
		Guidance:           activation.Guidance,
		SafetyTips:         activation.SafetyTips,
	}
}

// Backtrack lists the candidate trail reversed, each point measured from the live position.
// Exactly one point is flagged nearest. Success is false when there is no trail.
func (s *LostModeService) Backtrack() models.BacktrackResult {
	trail, _, ok := s.trails.Latest()
	if !ok || len(trail.Points) == 0 {
		return models.BacktrackResult{Success: false, Message: msgNoTrail}
	}

	pos := s.position.Current()
	points := make([]models.BacktrackPoint, len(trail.Points))
	nearest := 0
	for i := range points {
		orig := len(trail.Points) - 1 - i
		p := trail.Points[orig]
		d := spatial.HaversineDistance(pos.Latitude, pos.Longitude, p.Latitude, p.Longitude)
		b := spatial.Bearing(pos.Latitude, pos.Longitude, p.Latitude, p.Longitude)
		points[i] = models.BacktrackPoint{
			Index:            i,
			OriginalIndex:    orig,
			Point:            p,
			DistanceMeters:   d,
			Distance:         spatial.FormatDistance(d),
			BearingDegrees:   b,
			BearingDirection: spatial.CompassLabel(b),
		}
		if d < points[nearest].DistanceMeters {
			nearest = i
		}
	}
	points[nearest].IsNearest = true

	return models.BacktrackResult{
		Success:      true,
		TrailID:      trail.ID,
		TrailName:    trail.Name,
		Position:     &pos,
		NearestIndex: nearest,
		Points:       points,
	}
}

// Deactivate clears the activation and reports how long it lasted
func (s *LostModeService) Deactivate() models.LostModeDeactivation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activation == nil {
		return models.LostModeDeactivation{WasActive: false}
	}

	elapsed := s.now().Sub(s.activation.ActivatedAt).Seconds()
	s.activation = nil
	s.log.Info("Lost mode deactivated", zap.Float64("elapsed_s", elapsed))
	return models.LostModeDeactivation{WasActive: true, ElapsedSeconds: elapsed}
}

// IsActive reports whether lost mode is on
func (s *LostModeService) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activation != nil
}

// buildBacktrackRoute reverses the trail, finds the reversed point nearest to pos and
// targets the one after it, or the nearest itself when it is the last.
func buildBacktrackRoute(trail models.Trail, recording bool, pos models.Position) *models.BacktrackRoute {
	n := len(trail.Points)
	reversed := make([]models.TrailPoint, n)
	for i, p := range trail.Points {
		reversed[n-1-i] = p
	}

	nearestIdx := 0
	nearestDist := spatial.HaversineDistance(pos.Latitude, pos.Longitude, reversed[0].Latitude, reversed[0].Longitude)
	for i := 1; i < n; i++ {
		d := spatial.HaversineDistance(pos.Latitude, pos.Longitude, reversed[i].Latitude, reversed[i].Longitude)
		if d < nearestDist {
			nearestIdx, nearestDist = i, d
		}
	}

	targetIdx := nearestIdx
	if nearestIdx+1 < n {
		targetIdx = nearestIdx + 1
	}
	target := reversed[targetIdx]
	d := spatial.HaversineDistance(pos.Latitude, pos.Longitude, target.Latitude, target.Longitude)
	b := spatial.Bearing(pos.Latitude, pos.Longitude, target.Latitude, target.Longitude)

	return &models.BacktrackRoute{
		TrailID:      trail.ID,
		TrailName:    trail.Name,
		Recording:    recording,
		PointCount:   n,
		NearestIndex: nearestIdx,
		Next: &models.BacktrackTarget{
			Index:            targetIdx,
			Point:            target,
			DistanceMeters:   d,
			Distance:         spatial.FormatDistance(d),
			BearingDegrees:   b,
			BearingDirection: spatial.CompassLabel(b),
		},
	}
}

func buildGuidance(route *models.BacktrackRoute, nearest []models.WaypointDistance) []string {
	steps := []string{stepStop}

	switch {
	case route != nil && route.Next != nil:
		steps = append(steps, fmt.Sprintf(
			"Backtrack along trail %q: head %s (%.0f°) for %s to the next breadcrumb, then keep following the trail in reverse.",
			route.TrailName, route.Next.BearingDirection, route.Next.BearingDegrees, route.Next.Distance.Display))
	case len(nearest) > 0:
		w := nearest[0]
		steps = append(steps, fmt.Sprintf(
			"Head %s (%.0f°) toward waypoint %q, %s away.",
			w.BearingDirection, w.BearingDegrees, w.Name, w.Distance.Display))
	default:
		steps = append(steps, stepMark)
	}

	return append(steps, stepVisible)
}
