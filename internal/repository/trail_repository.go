package repository

import (
	"github.com/survival-companion/backend-go/internal/models"
	"github.com/survival-companion/backend-go/pkg/logger"
)

// TrailRepository handles persistence of completed trails
type TrailRepository struct {
	store CollectionStore
	log   *logger.Logger
}

// NewTrailRepository creates a new trail repository
func NewTrailRepository(store CollectionStore, log *logger.Logger) *TrailRepository {
	return &TrailRepository{store: store, log: log.WithComponent("trail_repository")}
}

// LoadAll returns the completed trails in the order they were finished
func (r *TrailRepository) LoadAll() []models.Trail {
	return loadCollection[models.Trail](r.store, CollectionTrails, r.log)
}

// SaveAll replaces the completed trails
func (r *TrailRepository) SaveAll(trails []models.Trail) error {
	return saveCollection(r.store, CollectionTrails, trails)
}
