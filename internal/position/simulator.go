package position

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/spatial"
	"github.com/survival-companion/backend-go/pkg/logger"
)

// maxSatellites is the most satellites a receiver reports in view
const maxSatellites = 24

// SimulatorConfig configures the simulated GPS feed
type SimulatorConfig struct {
	UpdateInterval time.Duration
	TimeToFix      time.Duration
	Satellites     int
	JitterMeters   float64 // maximum horizontal noise per fix
	CourseDegrees  float64 // drift direction
	SpeedMPS       float64 // drift speed, 0 keeps the device stationary
}

// Validate checks the configuration values
func (c SimulatorConfig) Validate() error {
	if c.UpdateInterval <= 0 {
		return ErrInvalidUpdateInterval
	}
	if c.Satellites < 0 || c.Satellites > maxSatellites {
		return ErrInvalidSatelliteCount
	}
	if c.JitterMeters < 0 {
		return ErrInvalidJitter
	}
	if c.SpeedMPS < 0 {
		return ErrInvalidSpeed
	}
	return nil
}

// Simulator writes a new fix into a Source at a fixed cadence.
// Manual overrides written to the Source between ticks become the new anchor.
type Simulator struct {
	mu     sync.Mutex
	config SimulatorConfig
	source *Source
	log    *logger.Logger
	rng    *rand.Rand

	// anchor is the noise-free position; the Source receives anchor + jitter
	anchorLat   float64
	anchorLon   float64
	lastWritten models.Position
	lastTick    time.Time
	lockTime    time.Time

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSimulator creates a simulator feeding source
func NewSimulator(config SimulatorConfig, source *Source, log *logger.Logger) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		config: config,
		source: source,
		log:    log.WithComponent("gps_simulator"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Start launches the feed loop; it runs until Stop or ctx is cancelled
func (s *Simulator) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSimulatorAlreadyRunning
	}

	now := time.Now()
	current := s.source.Current()
	s.anchorLat, s.anchorLon = current.Latitude, current.Longitude
	s.lastWritten = current
	s.lastTick = now
	s.lockTime = now.Add(s.config.TimeToFix)

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx, s.done)

	s.log.Info("GPS simulator started",
		zap.Duration("interval", s.config.UpdateInterval),
		zap.Duration("time_to_fix", s.config.TimeToFix),
	)
	return nil
}

// Stop cancels the feed loop and waits for it to exit
func (s *Simulator) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSimulatorNotRunning
	}
	s.running = false
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done
	s.source.SetTracking(false)
	s.log.Info("GPS simulator stopped")
	return nil
}

// IsRunning returns whether the simulator is currently running
func (s *Simulator) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Simulator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.config.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

// tick computes and publishes the next fix
func (s *Simulator) tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.source.Current()
	if current.Latitude != s.lastWritten.Latitude || current.Longitude != s.lastWritten.Longitude {
		s.anchorLat, s.anchorLon = current.Latitude, current.Longitude
	}

	dt := now.Sub(s.lastTick).Seconds()
	s.lastTick = now

	next := current
	next.Timestamp = now

	if now.Before(s.lockTime) {
		next.FixQuality = models.FixNone
		next.Satellites = s.rng.Intn(4)
		s.publish(next)
		return
	}

	if s.config.SpeedMPS > 0 && dt > 0 {
		s.anchorLat, s.anchorLon = spatial.DestinationPoint(
			s.anchorLat, s.anchorLon, s.config.CourseDegrees, s.config.SpeedMPS*dt)
		next.Heading = s.config.CourseDegrees
		next.Speed = s.config.SpeedMPS
	}

	next.Latitude, next.Longitude = s.anchorLat, s.anchorLon
	if s.config.JitterMeters > 0 {
		next.Latitude, next.Longitude = spatial.DestinationPoint(
			s.anchorLat, s.anchorLon,
			s.rng.Float64()*360,
			s.rng.Float64()*s.config.JitterMeters,
		)
	}

	next.Satellites = s.config.Satellites
	next.Accuracy = 2.5 + s.config.JitterMeters
	if s.config.Satellites >= 4 {
		next.FixQuality = models.Fix3D
	} else {
		next.FixQuality = models.Fix2D
	}

	s.publish(next)
}

func (s *Simulator) publish(p models.Position) {
	s.source.Update(p)
	s.lastWritten = p
}
