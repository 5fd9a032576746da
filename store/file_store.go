package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/taskpulse/taskpulse/models"
	yaml "gopkg.in/yaml.v3"

	"github.com/gofrs/flock"
)

const (
	defaultDataFile   = "tasks.json" // Default filename if only format implies extension
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// FileTaskStore implements the TaskStore interface using a file backend.
// It supports JSON, YAML, and TOML formats and uses file-level locking.
//
// Availability beats strict validation here: a file that fails to parse, or
// whose checksum does not match, loads as an empty collection instead of
// surfacing an error. The degraded load is logged; the next Save rewrites
// file and checksum consistently.
type FileTaskStore struct {
	filePath string
	flk      *flock.Flock
	format   string // "json", "yaml", or "toml"
}

// NewFileTaskStore creates a new instance of FileTaskStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileTaskStore() *FileTaskStore {
	return &FileTaskStore{}
}

// Initialize configures the FileTaskStore.
// It expects a 'dataFile' key in the config map specifying the path to the
// data file. If not provided, it defaults to 'tasks.json' in the current
// working directory.
func (s *FileTaskStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	// If filePath was the default and format is not JSON, adjust the default
	// extension. Users providing a full path are responsible for its extension.
	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// flock uses the file path itself for locking.
	s.flk = flock.New(s.filePath)

	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		// Another process holds the lock; block until initialization can run.
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	// Touch the data file so later loads see an empty collection rather than
	// a missing one.
	if _, err := os.Stat(s.filePath); errors.Is(err, fs.ErrNotExist) {
		f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644)
		if createErr != nil {
			return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
		}
		_ = f.Close()
		if err := os.WriteFile(s.filePath+checksumSuffix, []byte(calculateChecksum([]byte{})), 0o644); err != nil {
			logrus.WithError(err).Warnf("could not write initial checksum file for %s", s.filePath)
		}
	}
	return nil
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data) // Write never returns an error
	return hex.EncodeToString(hasher.Sum(nil))
}

// Load reads the persisted collection under the file lock. Any state that
// cannot be read back as a task list comes back as an empty slice.
func (s *FileTaskStore) Load() ([]models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for Load: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	return s.loadTasksFromFileInternal(), nil
}

// loadTasksFromFileInternal reads tasks from the file, verifies the checksum,
// and unmarshals. Assumes the file lock is held. Never fails: every degraded
// path yields an empty collection.
func (s *FileTaskStore) loadTasksFromFileInternal() []models.Task {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logrus.WithError(err).Warnf("could not read data file %s, starting with empty collection", s.filePath)
		}
		return []models.Task{}
	}

	if len(data) == 0 {
		return []models.Task{}
	}

	// Verify checksum if the sidecar exists. A mismatch means the data file
	// was corrupted or edited out-of-band; treat it the same as malformed
	// content.
	if expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath); readErr == nil {
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		if actual := calculateChecksum(data); actual != expectedChecksum {
			logrus.Warnf("checksum mismatch for %s (expected %s, got %s), starting with empty collection", s.filePath, expectedChecksum, actual)
			return []models.Task{}
		}
	}

	var taskList models.TaskList
	switch s.format {
	case formatJSON:
		err = json.Unmarshal(data, &taskList)
	case formatYAML:
		err = yaml.Unmarshal(data, &taskList)
	case formatTOML:
		err = toml.Unmarshal(data, &taskList)
	default:
		err = fmt.Errorf("unsupported data format: %s", s.format)
	}
	if err != nil {
		logrus.WithError(err).Warnf("could not parse %s as %s, starting with empty collection", s.filePath, s.format)
		return []models.Task{}
	}

	// Tolerant decode of enum-ish strings at the persistence boundary.
	tasks := taskList.Tasks
	for i := range tasks {
		tasks[i].BasePriority = models.NormalizeBasePriority(string(tasks[i].BasePriority))
		tasks[i].Frequency = models.NormalizeFrequency(string(tasks[i].Frequency))
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks
}

// Save persists the full collection, then its checksum, each via an atomic
// temp-file rename.
func (s *FileTaskStore) Save(tasks []models.Task) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for save: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	return s.saveTasksToFileInternal(tasks)
}

func (s *FileTaskStore) saveTasksToFileInternal(tasks []models.Task) error {
	taskList := models.TaskList{
		Tasks:      tasks,
		TotalCount: len(tasks),
	}

	var marshaledData []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(taskList, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(taskList)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(taskList); encodeErr == nil {
			marshaledData = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal tasks to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}

	actualChecksum := calculateChecksum(marshaledData)
	if err := os.WriteFile(tempChecksumFilePath, []byte(actualChecksum), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		// Data file is updated but the checksum is stale. The next Load would
		// degrade to empty, so surface this loudly.
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}

	return nil
}

// Backup creates a backup of the current task data to the specified destination path.
func (s *FileTaskStore) Backup(destinationPath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for backup: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	input, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read source file %s for backup: %w", s.filePath, err)
	}

	if err = os.WriteFile(destinationPath, input, 0o644); err != nil {
		return fmt.Errorf("failed to write backup file to %s: %w", destinationPath, err)
	}
	// The backup does not carry the .checksum sidecar; a restored file gets a
	// fresh checksum on its next save.
	return nil
}

// Restore replaces the current task data with data from the specified source
// path. The stale checksum file is removed so the restored data loads instead
// of degrading to empty.
func (s *FileTaskStore) Restore(sourcePath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for restore: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source backup file %s: %w", sourcePath, err)
	}

	tempFilePath := s.filePath + ".tmp_restore"
	defer func() { _ = os.Remove(tempFilePath) }()

	if err = os.WriteFile(tempFilePath, sourceData, 0o644); err != nil {
		return fmt.Errorf("failed to write restored data to temporary file %s: %w", tempFilePath, err)
	}

	if err = os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to atomically replace file %s with restored data from %s: %w", s.filePath, sourcePath, err)
	}

	checksumFilePath := s.filePath + checksumSuffix
	_ = os.Remove(checksumFilePath) // Best effort removal

	return nil
}

// Close releases the file lock held by the store.
// flock.Unlock() is idempotent and can be called even if the lock is not held
// by this process.
func (s *FileTaskStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
