// Package store reads and writes the nexus records in a key/value backend.
//
// Three records exist: "tasks" and "categories" hold JSON arrays, and
// "darkMode" holds the text true or false. Loading never fails: a record
// that is absent, unreadable or does not match its schema yields the
// default value, and the problem is logged.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/nexus-go/internal/kv"
	"github.com/nibzard/nexus-go/internal/todo"
)

// Record keys.
const (
	KeyTasks      = "tasks"
	KeyCategories = "categories"
	KeyDarkMode   = "darkMode"
)

// ErrSave is wrapped by every error returned from a Save method.
var ErrSave = errors.New("failed to save")

// Store is the persistent store adapter. It implements todo.TaskSaver and
// todo.CategorySaver.
type Store struct {
	backend kv.Backend
	logger  *log.Logger
}

// New returns a store over backend. A nil logger discards output.
func New(backend kv.Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{backend: backend, logger: logger}
}

// Backend returns the underlying backend.
func (s *Store) Backend() kv.Backend {
	return s.backend
}

// LoadTasks returns the stored tasks, or an empty list.
func (s *Store) LoadTasks(ctx context.Context) []todo.Task {
	tasks := []todo.Task{}
	if !s.load(ctx, KeyTasks, &tasks) {
		return []todo.Task{}
	}
	return tasks
}

// SaveTasks replaces the tasks record.
func (s *Store) SaveTasks(ctx context.Context, tasks []todo.Task) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return s.save(ctx, KeyTasks, tasks)
}

// LoadCategories returns the stored categories, or the seed categories.
func (s *Store) LoadCategories(ctx context.Context) []todo.Category {
	categories := []todo.Category{}
	if !s.load(ctx, KeyCategories, &categories) {
		return todo.SeedCategories()
	}
	return categories
}

// SaveCategories replaces the categories record.
func (s *Store) SaveCategories(ctx context.Context, categories []todo.Category) error {
	if categories == nil {
		categories = []todo.Category{}
	}
	return s.save(ctx, KeyCategories, categories)
}

// LoadDarkMode reports whether dark mode is stored as on. Anything other
// than the text "true" means off.
func (s *Store) LoadDarkMode(ctx context.Context) bool {
	raw, err := s.backend.Get(ctx, KeyDarkMode)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("failed to read record", "key", KeyDarkMode, "err", err)
		}
		return false
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	default:
		s.logger.Warn("ignoring malformed record", "key", KeyDarkMode, "value", raw)
		return false
	}
}

// SaveDarkMode stores the dark mode flag.
func (s *Store) SaveDarkMode(ctx context.Context, dark bool) error {
	value := "false"
	if dark {
		value = "true"
	}
	if err := s.backend.Set(ctx, KeyDarkMode, value); err != nil {
		s.logger.Error("failed to save record", "key", KeyDarkMode, "err", err)
		return fmt.Errorf("%w %s: %w", ErrSave, KeyDarkMode, err)
	}
	return nil
}

// load decodes the record into v. It reports false when the record is
// absent or unusable.
func (s *Store) load(ctx context.Context, key string, v interface{}) bool {
	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		s.logger.Debug("record not found, using default", "key", key)
		return false
	}
	if err != nil {
		s.logger.Warn("failed to read record, using default", "key", key, "err", err)
		return false
	}

	if errs := validateRecord(key, raw); len(errs) > 0 {
		s.logger.Warn("ignoring malformed record", "key", key, "problems", len(errs), "err", errs[0])
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("ignoring malformed record", "key", key, "err", err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w %s: encode: %w", ErrSave, key, err)
	}
	if err := s.backend.Set(ctx, key, string(data)); err != nil {
		s.logger.Error("failed to save record", "key", key, "err", err)
		return fmt.Errorf("%w %s: %w", ErrSave, key, err)
	}
	s.logger.Debug("saved record", "key", key, "bytes", len(data))
	return nil
}
