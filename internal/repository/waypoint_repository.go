package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/pkg/logger"
)

// WaypointRepository handles persistence of the waypoint collection
type WaypointRepository struct {
	store CollectionStore
	log   *logger.Logger
}

// NewWaypointRepository creates a new waypoint repository
func NewWaypointRepository(store CollectionStore, log *logger.Logger) *WaypointRepository {
	return &WaypointRepository{store: store, log: log.WithComponent("waypoint_repository")}
}

// LoadAll returns the saved waypoints; absent or unreadable data yields an empty list
func (r *WaypointRepository) LoadAll() []models.Waypoint {
	return loadCollection[models.Waypoint](r.store, CollectionWaypoints, r.log)
}

// SaveAll replaces the saved waypoints
func (r *WaypointRepository) SaveAll(waypoints []models.Waypoint) error {
	return saveCollection(r.store, CollectionWaypoints, waypoints)
}

func loadCollection[T any](store CollectionStore, name string, log *logger.Logger) []T {
	payload, err := store.Load(name)
	if errors.Is(err, ErrCollectionMissing) {
		return []T{}
	}
	if err != nil {
		log.Warn("Failed to load collection, starting empty", zap.String("collection", name), zap.Error(err))
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		log.Warn("Failed to parse collection, starting empty", zap.String("collection", name), zap.Error(err))
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func saveCollection[T any](store CollectionStore, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return store.Save(name, payload, len(items))
}
