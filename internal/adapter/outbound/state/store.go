// Package state persists the policy record as a JSON file with atomic
// writes, automatic backups, and cross-process file locking.
package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// FileStore reads and writes the policy record file.
// Writes are atomic (write-tmp-then-rename) and guarded by both an
// in-process mutex and an flock, so an administrative edit can never leave
// a torn file behind for the next load.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStore creates a FileStore for the given file path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads and parses the policy record. A missing file yields the
// default record. Individual malformed fields are substituted with their
// defaults and logged as warnings rather than failing the whole load;
// only a file that is not JSON at all is an error.
func (s *FileStore) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("policy file not found, using defaults", "path", s.path)
			return DefaultRecord(), nil
		}
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}

	rec := DefaultRecord()
	s.loadInt(raw, "duration_hours", &rec.DurationHours)
	if rec.DurationHours < 0 {
		s.logger.Warn("negative duration_hours clamped to 0", "value", rec.DurationHours)
		rec.DurationHours = 0
	}
	var epoch int64
	s.loadInt64(raw, "last_epoch", &epoch)
	rec.LastEpoch = epoch

	s.loadList(raw, "permanent_items", &rec.PermanentItems)
	s.loadList(raw, "timed_items", &rec.TimedItems)
	s.loadList(raw, "permanent_clothing", &rec.PermanentClothing)
	s.loadList(raw, "timed_clothing", &rec.TimedClothing)
	s.loadList(raw, "permanent_ammo", &rec.PermanentAmmo)
	s.loadList(raw, "timed_ammo", &rec.TimedAmmo)

	return rec, nil
}

// Save writes the record to disk atomically:
//  1. acquire the in-process mutex
//  2. acquire an flock on path+".lock"
//  3. copy the current file to path+".bak" (skipped if absent)
//  4. write indented JSON to path+".tmp" with 0600 permissions and fsync
//  5. rename path+".tmp" over path
func (s *FileStore) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lockPath := s.path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = lockFile.Close() }()

	if err := flockLock(lockFile.Fd()); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer func() { _ = flockUnlock(lockFile.Fd()) }()

	// Best-effort backup of the previous state.
	if prev, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.path+".bak", prev, 0o600); err != nil {
			s.logger.Warn("failed to write policy backup", "error", err)
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal policy record: %w", err)
	}

	tmpPath := s.path + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open temp policy file: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp policy file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp policy file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp policy file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename policy file: %w", err)
	}
	return nil
}

// loadList decodes one list field, substituting an empty list (with a
// warning) when the field is present but malformed. A missing or null
// field simply leaves the default in place.
func (s *FileStore) loadList(raw map[string]json.RawMessage, key string, dst *[]string) {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		*dst = nil
		return
	}
	var list []string
	if err := json.Unmarshal(msg, &list); err != nil {
		s.logger.Warn("malformed policy list field, using empty list",
			"field", key, "error", err)
		*dst = nil
		return
	}
	*dst = list
}

// loadInt decodes one integer field, keeping the default on a malformed value.
func (s *FileStore) loadInt(raw map[string]json.RawMessage, key string, dst *int) {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		return
	}
	var n int
	if err := json.Unmarshal(msg, &n); err != nil {
		s.logger.Warn("malformed policy field, using default",
			"field", key, "error", err)
		return
	}
	*dst = n
}

// loadInt64 decodes one 64-bit integer field, keeping the default on a
// malformed value.
func (s *FileStore) loadInt64(raw map[string]json.RawMessage, key string, dst *int64) {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		return
	}
	var n int64
	if err := json.Unmarshal(msg, &n); err != nil {
		s.logger.Warn("malformed policy field, using default",
			"field", key, "error", err)
		return
	}
	*dst = n
}
