package download

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const exportsFolderName = "exports"

// DiskStore implements Store by writing exported files under the data folder.
type DiskStore struct {
	dataFolder string
	mu         sync.RWMutex
}

// NewDiskStore creates a new disk-based store.
// Files are stored at {dataFolder}/exports/{id}/{name}
func NewDiskStore(dataFolder string) *DiskStore {
	return &DiskStore{
		dataFolder: dataFolder,
	}
}

func (s *DiskStore) root() string {
	return filepath.Join(s.dataFolder, exportsFolderName)
}

// Save writes data atomically: a temporary file is written then renamed.
func (s *DiskStore) Save(id, name string, data []byte) (string, error) {
	base := filepath.Base(name)
	if id == "" || base == "." || base == string(filepath.Separator) || strings.HasPrefix(base, "..") {
		return "", fmt.Errorf("invalid export file name %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.root(), filepath.Base(id))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, base)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Load retrieves a stored file.
// Returns ErrNotFound if the file does not exist or is outside the store.
func (s *DiskStore) Load(path string) ([]byte, error) {
	if !s.contains(path) {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Delete removes a stored file and its folder when empty.
func (s *DiskStore) Delete(path string) error {
	if !s.contains(path) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	_ = os.Remove(filepath.Dir(path))
	return nil
}

// Exists checks if a stored file exists.
func (s *DiskStore) Exists(path string) bool {
	if !s.contains(path) {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(path)
	return err == nil
}

func (s *DiskStore) contains(path string) bool {
	rel, err := filepath.Rel(s.root(), filepath.Clean(path))
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
