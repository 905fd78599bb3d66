// Package jsonstore provides a JSON file-based implementation of TaskStore.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
)

// idPrefix prefixes every task ID issued by the store.
const idPrefix = "T"

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Tasks map[string]*domain.Task `json:"tasks"`
	Meta  meta                    `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	NextTaskID int `json:"nextTaskID"`
}

// Store implements domain.TaskStore using a JSON file.
type Store struct {
	clock    domain.Clock
	path     string
	lockPath string
}

// Ensure Store implements TaskStore.
var _ domain.TaskStore = (*Store)(nil)

// New creates a new Store for the given file path.
// The file is created by Initialize or on first write.
func New(path string) *Store {
	return &Store{
		clock:    domain.RealClock{},
		path:     path,
		lockPath: path + ".lock",
	}
}

// WithClock sets the clock used to stamp new tasks.
func (s *Store) WithClock(clock domain.Clock) *Store {
	s.clock = clock
	return s
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// List retrieves tasks matching the filter, ordered by ID.
func (s *Store) List(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	err := s.withLock(func(data *storeData) error {
		for _, id := range sortedIDs(data) {
			t := *data.Tasks[id]
			t.ID = id
			if filter.Matches(&t) {
				tasks = append(tasks, t)
			}
		}
		return nil
	})
	return tasks, err
}

// AddNew stores the tasks whose (assignee, content) key is not persisted yet.
// Duplicates inside the input are also collapsed, first one wins.
func (s *Store) AddNew(_ context.Context, tasks []domain.Task) ([]domain.Task, error) {
	var added []domain.Task
	err := s.withLockWrite(func(data *storeData) error {
		seen := make(map[domain.TaskKey]bool, len(data.Tasks))
		for _, t := range data.Tasks {
			seen[t.Key()] = true
		}

		now := s.clock.Now()
		for _, t := range tasks {
			if seen[t.Key()] {
				continue
			}
			seen[t.Key()] = true

			id := idPrefix + strconv.Itoa(data.Meta.NextTaskID)
			data.Meta.NextTaskID++

			t.ID = id
			t.Status = domain.StatusPending
			t.Created = now
			stored := t
			data.Tasks[id] = &stored
			added = append(added, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// Complete marks a task completed.
func (s *Store) Complete(_ context.Context, id string) error {
	return s.withLockWrite(func(data *storeData) error {
		t, ok := data.Tasks[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		if !t.Status.CanTransitionTo(domain.StatusCompleted) {
			return fmt.Errorf("%w: %s is %s", domain.ErrInvalidTransition, id, t.Status.Display())
		}
		t.Status = domain.StatusCompleted
		return nil
	})
}

// Clear removes every task. The ID counter keeps counting so old IDs are never reused.
func (s *Store) Clear(_ context.Context) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Tasks = make(map[string]*domain.Task)
		return nil
	})
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	}

	return s.write(emptyData())
}

func emptyData() *storeData {
	return &storeData{
		Meta:  meta{NextTaskID: 1},
		Tasks: make(map[string]*domain.Task),
	}
}

// sortedIDs returns task IDs in issue order.
func sortedIDs(data *storeData) []string {
	ids := make([]string, 0, len(data.Tasks))
	for id := range data.Tasks {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		na, nb := idNumber(a), idNumber(b)
		if na != nb {
			return na - nb
		}
		return strings.Compare(a, b)
	})
	return ids
}

func idNumber(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, idPrefix))
	if err != nil {
		return 0
	}
	return n
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrStoreNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	if data.Tasks == nil {
		data.Tasks = make(map[string]*domain.Task)
	}
	if data.Meta.NextTaskID < 1 {
		data.Meta.NextTaskID = 1
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
