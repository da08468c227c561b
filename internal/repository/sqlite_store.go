package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/survival-companion/backend-go/internal/database"
)

// SQLiteCollectionStore keeps one row per collection in the collections table
type SQLiteCollectionStore struct {
	db *sql.DB
}

// NewSQLiteCollectionStore creates a store over a migrated database
func NewSQLiteCollectionStore(db *sql.DB) *SQLiteCollectionStore {
	return &SQLiteCollectionStore{db: db}
}

// Load returns the stored payload or ErrCollectionMissing
func (s *SQLiteCollectionStore) Load(name string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM collections WHERE name = ?", name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCollectionMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %s: %w", name, err)
	}
	return []byte(payload), nil
}

// Save upserts the collection row inside a transaction
func (s *SQLiteCollectionStore) Save(name string, payload []byte, count int) error {
	return database.Transaction(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO collections (name, payload, item_count, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				payload = excluded.payload,
				item_count = excluded.item_count,
				updated_at = excluded.updated_at`,
			name, string(payload), count, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to save collection %s: %w", name, err)
		}
		return nil
	})
}

// Close closes the underlying database
func (s *SQLiteCollectionStore) Close() error {
	return s.db.Close()
}
