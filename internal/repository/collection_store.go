package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/survival-companion/backend-go/internal/database"
	"github.com/survival-companion/backend-go/pkg/logger"
)

// Collection names
const (
	CollectionWaypoints = "waypoints"
	CollectionTrails    = "trails"
)

// ErrCollectionMissing is returned by Load when nothing has been saved yet
var ErrCollectionMissing = errors.New("collection not found")

// CollectionStore persists whole collections as JSON documents keyed by name
type CollectionStore interface {
	// Load returns the raw JSON payload of the named collection
	Load(name string) ([]byte, error)
	// Save replaces the named collection
	Save(name string, payload []byte, count int) error
	Close() error
}

// Storage drivers
const (
	DriverSQLite = "sqlite"
	DriverJSON   = "json"
)

// StoreConfig selects and configures a driver
type StoreConfig struct {
	Driver  string
	DBPath  string
	JSONDir string
}

// NewCollectionStore opens the store for the configured driver.
// The sqlite driver uses the process-wide database connection.
func NewCollectionStore(cfg StoreConfig, log *logger.Logger) (CollectionStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "":
		if err := database.Init(database.Config{Path: cfg.DBPath}, log); err != nil {
			return nil, err
		}
		return NewSQLiteCollectionStore(database.GetDB()), nil
	case DriverJSON:
		return NewJSONCollectionStore(cfg.JSONDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
