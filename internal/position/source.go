package position

import (
	"sync"
	"time"

	"github.com/survival-companion/backend-go/internal/models"
)

// Source holds the single current best-known position.
// Consumers call Current on every read and never cache the result.
type Source struct {
	mu        sync.RWMutex
	current   models.Position
	updatedAt time.Time
	tracking  bool
	now       func() time.Time
}

// NewSource creates a source seeded with an initial position
func NewSource(initial models.Position) *Source {
	s := &Source{now: time.Now}
	if initial.Timestamp.IsZero() {
		initial.Timestamp = s.now()
	}
	s.current = initial
	s.updatedAt = initial.Timestamp
	return s
}

// Current returns a copy of the latest position
func (s *Source) Current() models.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update overwrites the position and marks tracking active.
// A zero timestamp is stamped with the current time.
func (s *Source) Update(p models.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if p.Timestamp.IsZero() {
		p.Timestamp = now
	}
	s.current = p
	s.updatedAt = now
	s.tracking = true
}

// Apply merges a partial update into the current position and stores it
func (s *Source) Apply(u models.PositionUpdate) models.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := u.Apply(s.current)
	p.Timestamp = now
	s.current = p
	s.updatedAt = now
	s.tracking = true
	return p
}

// Age is the time since the last update
func (s *Source) Age() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().Sub(s.updatedAt)
}

// Tracking reports whether a feed is actively updating the position
func (s *Source) Tracking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracking
}

// SetTracking sets the tracking flag
func (s *Source) SetTracking(tracking bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracking = tracking
}

// Status returns the position together with its age and fix state
func (s *Source) Status() models.PositionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.PositionStatus{
		Position:   s.current,
		AgeSeconds: s.now().Sub(s.updatedAt).Seconds(),
		Tracking:   s.tracking,
		HasFix:     s.current.HasFix(),
	}
}
