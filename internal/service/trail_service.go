package service

import (
	"context"
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

// TrailPersister loads and saves the completed trail list
type TrailPersister interface {
	LoadAll() []models.Trail
	SaveAll([]models.Trail) error
}

// TrailConfig is the breadcrumb sampling policy
type TrailConfig struct {
	SampleInterval    time.Duration
	MinDistanceMeters float64
}

// TrailService records breadcrumb trails. It is either idle or recording
// exactly one trail, sampled in the background at a fixed interval.
type TrailService struct {
	mu       sync.Mutex
	repo     TrailPersister
	position PositionReader
	log      *logger.Logger
	cfg      TrailConfig
	now      func() time.Time

	trails    []models.Trail
	highestID int64

	active   *models.Trail
	stopping bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewTrailService loads completed trails and creates an idle recorder
func NewTrailService(repo TrailPersister, position PositionReader, cfg TrailConfig, log *logger.Logger) *TrailService {
	trails := repo.LoadAll()
	return &TrailService{
		repo:      repo,
		position:  position,
		log:       log.WithComponent("trail_service"),
		cfg:       cfg,
		now:       time.Now,
		trails:    trails,
		highestID: lo.Max(lo.Map(trails, func(t models.Trail, _ int) int64 { return t.ID })),
	}
}

// Start begins recording a new trail with one point at the current position
func (s *TrailService) Start(name string) (models.TrailSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return models.TrailSummary{}, apperror.AlreadyRecording(s.active.ID)
	}

	now := s.now()
	if name == "" {
		name = "Trail " + now.Format("2006-01-02 15:04")
	}

	trail := &models.Trail{
		ID:        s.nextID(),
		Name:      name,
		StartedAt: now,
		Points:    []models.TrailPoint{s.snapshot(now)},
	}
	s.active = trail

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, trail, s.done)

	s.log.Info("Trail recording started",
		zap.Int64("trail_id", trail.ID),
		zap.String("name", trail.Name),
		zap.Duration("interval", s.cfg.SampleInterval),
		zap.Float64("min_distance_m", s.cfg.MinDistanceMeters),
	)
	return trail.Summarize(now), nil
}

func (s *TrailService) run(ctx context.Context, trail *models.Trail, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if ctx.Err() == nil && s.active == trail {
				s.sampleLocked(false)
			}
			s.mu.Unlock()
		}
	}
}

// sample takes one reading into the active trail. Reports whether a point was appended.
func (s *TrailService) sample(force bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return false
	}
	return s.sampleLocked(force)
}

// sampleLocked appends the current position when it is at least MinDistanceMeters
// from the last point. Trails with fewer than two points always accept, and force
// skips the threshold. Caller holds s.mu.
func (s *TrailService) sampleLocked(force bool) bool {
	trail := s.active
	point := s.snapshot(s.now())

	last := trail.LastPoint()
	if last == nil {
		trail.Points = append(trail.Points, point)
		return true
	}

	d := spatial.HaversineDistance(last.Latitude, last.Longitude, point.Latitude, point.Longitude)
	if !force && len(trail.Points) > 1 && d < s.cfg.MinDistanceMeters {
		trail.SkippedSamples++
		return false
	}

	trail.Points = append(trail.Points, point)
	trail.TotalDistanceMeters += d
	return true
}

func (s *TrailService) snapshot(now time.Time) models.TrailPoint {
	pos := s.position.Current()
	pos.Timestamp = now
	return models.TrailPointFromPosition(pos)
}

// Stop takes a final forced sample, closes the trail and persists the trail list.
// The sampler has exited before the trail is finalized.
func (s *TrailService) Stop() (models.TrailResult, error) {
	s.mu.Lock()
	if s.active == nil || s.stopping {
		s.mu.Unlock()
		return models.TrailResult{}, apperror.NotRecording()
	}
	s.stopping = true
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sampleLocked(true)
	ended := s.now()
	s.active.EndedAt = &ended

	finished := *s.active
	s.trails = append(s.trails, finished)
	s.active = nil
	s.stopping = false
	s.cancel = nil
	s.done = nil

	persisted := s.persist()

	s.log.Info("Trail recording stopped",
		zap.Int64("trail_id", finished.ID),
		zap.Int("points", len(finished.Points)),
		zap.Float64("distance_m", finished.TotalDistanceMeters),
		zap.Int("skipped_samples", finished.SkippedSamples),
		zap.Bool("persisted", persisted),
	)
	return models.TrailResult{Trail: finished.Summarize(ended), Persisted: persisted}, nil
}

// Status reports idle or a summary of the trail being recorded
func (s *TrailService) Status() models.TrailStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return models.TrailStatus{Recording: false}
	}
	summary := s.active.Summarize(s.now())
	return models.TrailStatus{Recording: true, Trail: &summary}
}

// IsRecording reports whether a trail is active
func (s *TrailService) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// List summarizes completed trails in completion order
func (s *TrailService) List() []models.TrailSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return lo.Map(s.trails, func(t models.Trail, _ int) models.TrailSummary {
		return t.Summarize(now)
	})
}

// Get returns a completed trail with its points
func (s *TrailService) Get(id int64) (models.Trail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Trail{}, apperror.NotFound("trail", id)
	}
	return s.trails[idx].Clone(), nil
}

// Delete removes a completed trail
func (s *TrailService) Delete(id int64) (models.TrailResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.TrailResult{}, apperror.NotFound("trail", id)
	}

	removed := s.trails[idx]
	s.trails = append(s.trails[:idx:idx], s.trails[idx+1:]...)
	persisted := s.persist()

	s.log.Info("Trail deleted", zap.Int64("trail_id", id), zap.Bool("persisted", persisted))
	return models.TrailResult{Trail: removed.Summarize(s.now()), Persisted: persisted}, nil
}

// Latest returns the trail being recorded, else the most recently completed one.
// recording tells which; ok is false when there are no trails at all.
func (s *TrailService) Latest() (trail models.Trail, recording bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return s.active.Clone(), true, true
	}
	if len(s.trails) == 0 {
		return models.Trail{}, false, false
	}
	return s.trails[len(s.trails)-1].Clone(), false, true
}

// ExportGPX renders a completed trail as GPX 1.1
func (s *TrailService) ExportGPX(id int64) ([]byte, error) {
	trail, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return encodeGPX(trail)
}

// Close finalizes a trail still recording at shutdown
func (s *TrailService) Close() error {
	if !s.IsRecording() {
		return nil
	}
	_, err := s.Stop()
	if apperror.IsStateConflict(err) {
		return nil
	}
	return err
}

// nextID is one past the highest trail id ever issued. Caller holds s.mu.
func (s *TrailService) nextID() int64 {
	for _, t := range s.trails {
		if t.ID > s.highestID {
			s.highestID = t.ID
		}
	}
	s.highestID++
	return s.highestID
}

// caller holds s.mu
func (s *TrailService) indexOf(id int64) int {
	_, idx, ok := lo.FindIndexOf(s.trails, func(t models.Trail) bool { return t.ID == id })
	if !ok {
		return -1
	}
	return idx
}

// persist saves the completed trail list. Caller holds s.mu.
func (s *TrailService) persist() bool {
	if err := s.repo.SaveAll(s.trails); err != nil {
		s.log.Error("Failed to persist trails",
			zap.Error(apperror.Persistence(repository.CollectionTrails, err)),
			zap.Int("count", len(s.trails)),
		)
		return false
	}
	return true
}
