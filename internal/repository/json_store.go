package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONCollectionStore keeps each collection in <dir>/<name>.json
type JSONCollectionStore struct {
	dir string
}

// NewJSONCollectionStore creates the directory if needed
func NewJSONCollectionStore(dir string) (*JSONCollectionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONCollectionStore{dir: dir}, nil
}

func (s *JSONCollectionStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the collection file or returns ErrCollectionMissing
func (s *JSONCollectionStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrCollectionMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Save writes to a temp file and renames it over the collection file,
// so readers never observe a partial write.
func (s *JSONCollectionStore) Save(name string, payload []byte, _ int) error {
	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Close is a no-op
func (s *JSONCollectionStore) Close() error {
	return nil
}
