package download

import (
	"errors"
)

// ErrNotFound is returned when an exported file is not found in the store.
var ErrNotFound = errors.New("exported file not found")

// Store defines the interface for exported file storage.
type Store interface {
	// Save persists data under id/name and returns the path of the file.
	Save(id, name string, data []byte) (string, error)

	// Load reads the file at path.
	// Returns ErrNotFound if the file does not exist.
	Load(path string) ([]byte, error)

	// Delete removes the file at path.
	// Returns nil if the file does not exist.
	Delete(path string) error

	// Exists checks if the file at path exists.
	Exists(path string) bool
}
