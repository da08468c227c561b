package api

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/internal/config"
	"github.com/survival-companion/backend-go/internal/handler"
	"github.com/survival-companion/backend-go/internal/middleware"
	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/internal/position"
	"github.com/survival-companion/backend-go/internal/repository"
	"github.com/survival-companion/backend-go/internal/service"
	"github.com/survival-companion/backend-go/pkg/auth"
	"github.com/survival-companion/backend-go/pkg/logger"
)

const tokenIssuer = "survival-companion"

// App is the fully wired navigation backend
type App struct {
	Engine     *gin.Engine
	Source     *position.Source
	Simulator  *position.Simulator // nil when the position is not simulated
	Waypoints  *service.WaypointService
	Trails     *service.TrailService
	Navigation *service.NavigationService
	LostMode   *service.LostModeService
	Emergency  *service.EmergencyService

	stream  *handler.StreamHandler
	limiter *middleware.RateLimiter
	store   repository.CollectionStore
	log     *logger.Logger
}

// NewApp wires services, handlers and routes on top of a collection store.
// The app owns the store and closes it in Close.
func NewApp(cfg *config.Config, store repository.CollectionStore, log *logger.Logger) (*App, error) {
	source := position.NewSource(models.Position{
		Latitude:   cfg.GPS.DefaultLatitude,
		Longitude:  cfg.GPS.DefaultLongitude,
		Altitude:   cfg.GPS.DefaultAltitude,
		FixQuality: models.FixNone,
	})

	var simulator *position.Simulator
	if cfg.GPS.Simulate {
		var err error
		simulator, err = position.NewSimulator(position.SimulatorConfig{
			UpdateInterval: cfg.GPS.UpdateInterval,
			TimeToFix:      cfg.GPS.TimeToFix,
			Satellites:     cfg.GPS.Satellites,
			JitterMeters:   cfg.GPS.JitterMeters,
			CourseDegrees:  cfg.GPS.CourseDegrees,
			SpeedMPS:       cfg.GPS.SpeedMPS,
		}, source, log)
		if err != nil {
			return nil, err
		}
	}

	waypoints := service.NewWaypointService(repository.NewWaypointRepository(store, log), source, log)
	trails := service.NewTrailService(repository.NewTrailRepository(store, log), source, service.TrailConfig{
		SampleInterval:    cfg.Trail.SampleInterval,
		MinDistanceMeters: cfg.Trail.MinDistanceMeters,
	}, log)
	navigation := service.NewNavigationService(waypoints, source, cfg.Navigation.ArrivalRadiusMeters, log)
	lostMode := service.NewLostModeService(trails, waypoints, source, cfg.LostMode.NearestWaypoints, log)
	emergency := service.NewEmergencyService(source, log)

	stream := handler.NewStreamHandler(source, trails, navigation, lostMode, emergency, cfg.GPS.UpdateInterval, log)
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)

	h := Handlers{
		Health:     handler.NewHealthHandler(source, trails),
		Position:   handler.NewPositionHandler(source),
		Waypoint:   handler.NewWaypointHandler(waypoints, source),
		Trail:      handler.NewTrailHandler(trails),
		Navigation: handler.NewNavigationHandler(navigation),
		LostMode:   handler.NewLostModeHandler(lostMode),
		Emergency:  handler.NewEmergencyHandler(emergency),
		Stream:     stream,
	}
	opts := Options{Logger: log, RateLimiter: limiter}
	if cfg.Auth.Enabled {
		opts.JWT = auth.NewJWTService(cfg.Auth.JWTSecret, tokenIssuer, cfg.Auth.TokenTTL)
		h.Auth = handler.NewAuthHandler(opts.JWT, cfg.Auth.PairingCode, log)
	}

	return &App{
		Engine:     SetupRouter(h, opts),
		Source:     source,
		Simulator:  simulator,
		Waypoints:  waypoints,
		Trails:     trails,
		Navigation: navigation,
		LostMode:   lostMode,
		Emergency:  emergency,
		stream:     stream,
		limiter:    limiter,
		store:      store,
		log:        log.WithComponent("app"),
	}, nil
}

// Start launches the simulated GPS feed when one is configured
func (a *App) Start(ctx context.Context) error {
	if a.Simulator == nil {
		return nil
	}
	return a.Simulator.Start(ctx)
}

// Close disconnects stream clients, finalizes any recording trail and closes the store
func (a *App) Close() error {
	a.stream.Close()
	a.limiter.Stop()

	var errs []error
	if a.Simulator != nil {
		if err := a.Simulator.Stop(); err != nil && !errors.Is(err, position.ErrSimulatorNotRunning) {
			errs = append(errs, err)
		}
	}
	if err := a.Trails.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	if err != nil {
		a.log.Error("Shutdown finished with errors", zap.Error(err))
	}
	return err
}
