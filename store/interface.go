package store

import "github.com/taskpulse/taskpulse/models"

// TaskStore defines the interface for task persistence.
//
// The engine owns the authoritative in-memory collection and persists it
// wholesale after every mutation and ranking cycle, so the contract is
// collection-granular: Load at startup, Save after each change.
type TaskStore interface {
	// Initialize configures the store with necessary parameters, such as
	// file path, data format, and any other backend-specific settings.
	// It should be called before any other store operations.
	Initialize(config map[string]string) error

	// Load reads the persisted collection. Malformed or corrupted data is
	// not an error: the store degrades to an empty collection so the engine
	// always has something to rank.
	Load() ([]models.Task, error)

	// Save persists the full collection, replacing whatever was stored
	// before. Slice order must be preserved across a Load round-trip.
	Save(tasks []models.Task) error

	// Backup creates a backup of the current task data to the specified
	// destination path.
	Backup(destinationPath string) error

	// Restore replaces the current task data with data from the specified
	// source path. This operation may be destructive to current data.
	Restore(sourcePath string) error

	// Close releases any resources held by the store, such as file locks.
	// It should be called when the store is no longer needed.
	Close() error
}
