package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/internal/apperror"
	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/repository"
	"github.com/survival-companion/backend-go/internal/spatial"
	"github.com/survival-companion/backend-go/pkg/logger"
)

// PositionReader provides the current position
type PositionReader interface {
	Current() models.Position
}

// WaypointPersister loads and saves the whole waypoint collection
type WaypointPersister interface {
	LoadAll() []models.Waypoint
	SaveAll([]models.Waypoint) error
}

// WaypointService owns the waypoint collection
type WaypointService struct {
	mu        sync.Mutex
	repo      WaypointPersister
	position  PositionReader
	log       *logger.Logger
	now       func() time.Time
	waypoints []models.Waypoint
	highestID int64
}

// NewWaypointService loads saved waypoints and creates the service
func NewWaypointService(repo WaypointPersister, position PositionReader, log *logger.Logger) *WaypointService {
	waypoints := repo.LoadAll()
	return &WaypointService{
		repo:      repo,
		position:  position,
		log:       log.WithComponent("waypoint_service"),
		now:       time.Now,
		waypoints: waypoints,
		highestID: lo.Max(lo.Map(waypoints, func(w models.Waypoint, _ int) int64 { return w.ID })),
	}
}

// Create adds a waypoint. Omitted coordinates default to the current position.
func (s *WaypointService) Create(req models.CreateWaypointRequest) (models.WaypointResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.WaypointResult{}, apperror.Validation("waypoint", "name", "name is required")
	}
	category, err := normalizeCategory(req.Category)
	if err != nil {
		return models.WaypointResult{}, err
	}

	pos := s.position.Current()
	lat := lo.FromPtrOr(req.Latitude, pos.Latitude)
	lon := lo.FromPtrOr(req.Longitude, pos.Longitude)
	alt := lo.FromPtrOr(req.Altitude, pos.Altitude)
	if err := validateCoordinates(lat, lon); err != nil {
		return models.WaypointResult{}, err
	}

	return s.insert(func(id int64) models.Waypoint {
		return models.Waypoint{
			Name:      name,
			Latitude:  lat,
			Longitude: lon,
			Altitude:  alt,
			Notes:     req.Notes,
			Category:  category,
		}
	}), nil
}

// MarkHere drops a waypoint at the current position, named "Waypoint <id>" when no name is given
func (s *WaypointService) MarkHere(req models.MarkWaypointRequest) (models.WaypointResult, error) {
	category, err := normalizeCategory(req.Category)
	if err != nil {
		return models.WaypointResult{}, err
	}

	pos := s.position.Current()
	name := strings.TrimSpace(req.Name)

	return s.insert(func(id int64) models.Waypoint {
		if name == "" {
			name = fmt.Sprintf("Waypoint %d", id)
		}
		return models.Waypoint{
			Name:      name,
			Latitude:  pos.Latitude,
			Longitude: pos.Longitude,
			Altitude:  pos.Altitude,
			Notes:     req.Notes,
			Category:  category,
		}
	}), nil
}

func (s *WaypointService) insert(build func(id int64) models.Waypoint) models.WaypointResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID()
	now := s.now()

	wp := build(id)
	wp.ID = id
	wp.Geohash = spatial.EncodeGeohash(wp.Latitude, wp.Longitude, spatial.WaypointGeohashPrecision)
	wp.CreatedAt = now
	wp.UpdatedAt = now

	s.waypoints = append(s.waypoints, wp)
	persisted := s.persist()

	s.log.Info("Waypoint created",
		zap.Int64("id", wp.ID),
		zap.String("name", wp.Name),
		zap.String("category", wp.Category),
		zap.Bool("persisted", persisted),
	)
	return models.WaypointResult{Waypoint: wp, Persisted: persisted}
}

// nextID is one past the highest id ever seen, so deleted ids are never reissued.
// Caller holds s.mu.
func (s *WaypointService) nextID() int64 {
	for _, w := range s.waypoints {
		if w.ID > s.highestID {
			s.highestID = w.ID
		}
	}
	s.highestID++
	return s.highestID
}

// Get returns a waypoint by id
func (s *WaypointService) Get(id int64) (models.Waypoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Waypoint{}, apperror.NotFound("waypoint", id)
	}
	return s.waypoints[idx], nil
}

// List returns all waypoints in creation order
func (s *WaypointService) List() []models.Waypoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Waypoint{}, s.waypoints...)
}

// Update changes only the supplied fields and refreshes updated_at
func (s *WaypointService) Update(id int64, req models.UpdateWaypointRequest) (models.WaypointResult, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return models.WaypointResult{}, apperror.Validation("waypoint", "name", "name cannot be empty")
	}
	var category string
	if req.Category != nil {
		c, err := normalizeCategory(*req.Category)
		if err != nil {
			return models.WaypointResult{}, err
		}
		category = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.WaypointResult{}, apperror.NotFound("waypoint", id)
	}

	wp := s.waypoints[idx]
	if req.Name != nil {
		wp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Latitude != nil {
		wp.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		wp.Longitude = *req.Longitude
	}
	if req.Altitude != nil {
		wp.Altitude = *req.Altitude
	}
	if req.Notes != nil {
		wp.Notes = *req.Notes
	}
	if req.Category != nil {
		wp.Category = category
	}
	if err := validateCoordinates(wp.Latitude, wp.Longitude); err != nil {
		return models.WaypointResult{}, err
	}
	wp.Geohash = spatial.EncodeGeohash(wp.Latitude, wp.Longitude, spatial.WaypointGeohashPrecision)
	wp.UpdatedAt = s.now()

	s.waypoints[idx] = wp
	persisted := s.persist()

	s.log.Info("Waypoint updated", zap.Int64("id", id), zap.Bool("persisted", persisted))
	return models.WaypointResult{Waypoint: wp, Persisted: persisted}, nil
}

// Delete removes a waypoint and returns it
func (s *WaypointService) Delete(id int64) (models.WaypointResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.WaypointResult{}, apperror.NotFound("waypoint", id)
	}

	removed := s.waypoints[idx]
	s.waypoints = append(s.waypoints[:idx:idx], s.waypoints[idx+1:]...)
	persisted := s.persist()

	s.log.Info("Waypoint deleted", zap.Int64("id", id), zap.Bool("persisted", persisted))
	return models.WaypointResult{Waypoint: removed, Persisted: persisted}, nil
}

// ListSortedByDistanceFrom returns waypoints nearest first, annotated with distance and bearing.
// The stored order is not changed.
func (s *WaypointService) ListSortedByDistanceFrom(pos models.Position) []models.WaypointDistance {
	annotated := lo.Map(s.List(), func(w models.Waypoint, _ int) models.WaypointDistance {
		return annotateWaypoint(w, pos)
	})
	sort.SliceStable(annotated, func(i, j int) bool {
		return annotated[i].DistanceMeters < annotated[j].DistanceMeters
	})
	return annotated
}

// Nearest returns at most n waypoints closest to pos
func (s *WaypointService) Nearest(pos models.Position, n int) []models.WaypointDistance {
	sorted := s.ListSortedByDistanceFrom(pos)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func annotateWaypoint(w models.Waypoint, pos models.Position) models.WaypointDistance {
	d := spatial.HaversineDistance(pos.Latitude, pos.Longitude, w.Latitude, w.Longitude)
	b := spatial.Bearing(pos.Latitude, pos.Longitude, w.Latitude, w.Longitude)
	return models.WaypointDistance{
		Waypoint:         w,
		DistanceMeters:   d,
		Distance:         spatial.FormatDistance(d),
		BearingDegrees:   b,
		BearingDirection: spatial.CompassLabel(b),
	}
}

// caller holds s.mu
func (s *WaypointService) indexOf(id int64) int {
	_, idx, ok := lo.FindIndexOf(s.waypoints, func(w models.Waypoint) bool { return w.ID == id })
	if !ok {
		return -1
	}
	return idx
}

// persist saves the full collection. Caller holds s.mu.
func (s *WaypointService) persist() bool {
	if err := s.repo.SaveAll(s.waypoints); err != nil {
		s.log.Error("Failed to persist waypoints",
			zap.Error(apperror.Persistence(repository.CollectionWaypoints, err)),
			zap.Int("count", len(s.waypoints)),
		)
		return false
	}
	return true
}

func normalizeCategory(category string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return models.CategoryOther, nil
	}
	if !lo.Contains(models.WaypointCategories, c) {
		return "", apperror.Validation("waypoint", "category",
			fmt.Sprintf("unknown category %q, expected one of %s", category, strings.Join(models.WaypointCategories, ", ")))
	}
	return c, nil
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return apperror.Validation("waypoint", "latitude", "latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return apperror.Validation("waypoint", "longitude", "longitude must be between -180 and 180")
	}
	return nil
}
