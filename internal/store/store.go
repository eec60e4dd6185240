// Package store persists finished sessions as JSON so a report can be
// re-rendered later without re-running the session.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/achauhan/focusreport/internal/domain"
)

// Store reads and writes sessions under a single directory, one file per
// session named <id>.json.
type Store struct {
	dir string
}

// DefaultDir returns ~/.focusreport/sessions
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".focusreport", "sessions"), nil
}

// New creates a store rooted at dir, creating it if needed
func New(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory
func (s *Store) Dir() string { return s.dir }

// Save writes the session and returns the file path
func (s *Store) Save(sess *domain.Session) (string, error) {
	if sess == nil {
		return "", errors.New("session is required")
	}
	if sess.ID == "" {
		return "", errors.New("session has no id")
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return "", err
	}
	b = append(b, '\n')
	path := filepath.Join(s.dir, sess.ID+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a session by id
func (s *Store) Load(id string) (*domain.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("session id is required")
	}
	b, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return nil, err
	}
	var sess domain.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Meta is a stored session's listing entry
type Meta struct {
	ID        string
	StartTime time.Time
	EndTime   *time.Time
	Apps      int
	Records   int
}

// List returns stored sessions, most recent first
func (s *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var metas []Meta
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		sess, err := s.Load(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			// unreadable entries are skipped, not fatal
			continue
		}
		metas = append(metas, Meta{
			ID:        sess.ID,
			StartTime: sess.StartTime,
			EndTime:   sess.EndTime,
			Apps:      len(sess.AppUsage),
			Records:   len(sess.DetailedLog),
		})
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].StartTime.After(metas[j].StartTime)
	})
	return metas, nil
}
