package dedup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-jobfinder-automation/internal/models"

	"go.uber.org/zap"
)

// Store remembers which postings were accepted on earlier runs.
type Store interface {
	Load(ctx context.Context) error
	IsSeen(fingerprint string) bool
	Add(fingerprint string)
	Save(ctx context.Context) error
	EvictOlderThan(ctx context.Context, days int) (int, error)
	Len() int
}

//older history files were written without a zone offset
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// FileStore keeps history as a JSON object of fingerprint -> timestamp.
type FileStore struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]string
	logger   *zap.Logger
	now      func() time.Time
}

func NewFileStore(filePath string, logger *zap.Logger) *FileStore {
	return &FileStore{
		filePath: filePath,
		seen:     make(map[string]string),
		logger:   logger,
		now:      time.Now,
	}
}

// Load reads the history file. A missing file is an empty history; a corrupt
// one is logged and also treated as empty.
func (s *FileStore) Load(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen = make(map[string]string)
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("No history file found, starting with empty history", zap.String("path", s.filePath))
			return nil
		}
		s.logger.Error("Failed to read history file, starting with empty history", zap.String("path", s.filePath), zap.Error(err))
		return nil
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Error("Failed to parse history file, starting with empty history", zap.String("path", s.filePath), zap.Error(err))
		return nil
	}
	if entries != nil {
		s.seen = entries
	}

	s.logger.Info("Loaded job history", zap.String("path", s.filePath), zap.Int("entries", len(s.seen)))
	return nil
}

func (s *FileStore) IsSeen(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.seen[fingerprint]
	return exists
}

// Add records fingerprint at the current time, replacing any earlier entry.
func (s *FileStore) Add(fingerprint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[fingerprint] = s.now().Format(time.RFC3339Nano)
}

func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Save writes the full mapping next to the target and renames it into place.
func (s *FileStore) Save(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *FileStore) save() error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(s.seen, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp history file: %w", err)
	}
	//CreateTemp opens 0600
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set history file mode: %w", err)
	}
	if err := os.Rename(tmpName, s.filePath); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}

	s.logger.Info("Saved job history", zap.String("path", s.filePath), zap.Int("entries", len(s.seen)))
	return nil
}

// EvictOlderThan drops entries older than days, plus any with an unreadable
// timestamp, and persists the result when something was removed.
func (s *FileStore) EvictOlderThan(_ context.Context, days int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := models.EvictionCutoff(s.now(), days)
	removed := 0
	for fp, ts := range s.seen {
		t, ok := parseTimestamp(ts)
		if !ok || models.Expired(t, cutoff) {
			delete(s.seen, fp)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}
	s.logger.Info("Evicted old history entries", zap.Int("removed", removed), zap.Int("days", days))
	if err := s.save(); err != nil {
		return removed, err
	}
	return removed, nil
}

func parseTimestamp(ts string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
