package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/internal/api"
	"github.com/survival-companion/backend-go/internal/config"
	"github.com/survival-companion/backend-go/internal/repository"
	"github.com/survival-companion/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Log.Level),
		Environment: cfg.Server.Environment,
		Encoding:    cfg.Log.Encoding,
	})
	if err != nil {
		logger.NewDefault().Fatal("Failed to create logger", zap.Error(err))
	}
	defer log.Sync()
	logger.SetGlobalLogger(log)

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open storage
	store, err := repository.NewCollectionStore(repository.StoreConfig{
		Driver:  cfg.Storage.Driver,
		DBPath:  cfg.Storage.DBPath,
		JSONDir: cfg.Storage.JSONDir,
	}, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	app, err := api.NewApp(cfg, store, log)
	if err != nil {
		_ = store.Close()
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		log.Fatal("Failed to start GPS simulator", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: app.Engine,
	}

	go func() {
		log.Info("Server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("simulate_gps", cfg.GPS.Simulate),
			zap.Bool("auth", cfg.Auth.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := app.Close(); err != nil {
		log.Error("Failed to close application", zap.Error(err))
	}

	log.Info("Server exited")
}
