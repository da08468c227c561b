package service

import (
	"errors"
	"sync"
	"time"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/position"
	"github.com/survival-companion/backend-go/internal/spatial"
)

var errDiskFull = errors.New("disk full")

type memoryWaypoints struct {
	mu    sync.Mutex
	saved []models.Waypoint
	saves int
	fail  bool
}

func (m *memoryWaypoints) LoadAll() []models.Waypoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Waypoint{}, m.saved...)
}

func (m *memoryWaypoints) SaveAll(w []models.Waypoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errDiskFull
	}
	m.saved = append([]models.Waypoint{}, w...)
	m.saves++
	return nil
}

type memoryTrails struct {
	mu    sync.Mutex
	saved []models.Trail
	fail  bool
}

func (m *memoryTrails) LoadAll() []models.Trail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Trail{}, m.saved...)
}

func (m *memoryTrails) SaveAll(t []models.Trail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errDiskFull
	}
	m.saved = append([]models.Trail{}, t...)
	return nil
}

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newSource(lat, lon float64) *position.Source {
	return position.NewSource(models.Position{Latitude: lat, Longitude: lon, FixQuality: models.Fix3D})
}

func moveTo(src *position.Source, lat, lon float64) {
	p := src.Current()
	p.Latitude, p.Longitude = lat, lon
	p.Timestamp = time.Time{}
	src.Update(p)
}

// moveBy moves the source distance meters along bearing from its current position
func moveBy(src *position.Source, bearing, distance float64) {
	p := src.Current()
	lat, lon := spatial.DestinationPoint(p.Latitude, p.Longitude, bearing, distance)
	moveTo(src, lat, lon)
}

func ptr[T any](v T) *T { return &v }
