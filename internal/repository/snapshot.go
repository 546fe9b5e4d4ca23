package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"task-tracker/internal/model"
)

const (
	// FormatName tags every snapshot written by this package.
	FormatName = "task-tracker.snapshot"
	// FormatVersion is the only snapshot layout this build reads and writes.
	FormatVersion = 1
)

// Snapshot is the full tracker state exchanged between the manager and a Store.
// Task categories and the current user point into Categories and Users.
type Snapshot struct {
	Categories  []*model.Category
	Users       []*model.User
	Tasks       []*model.Task
	CurrentUser *model.User
}

// Store persists a Snapshot at a single destination.
// Load wraps fs.ErrNotExist when nothing has been saved there yet.
type Store interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Path() string
}

// Open picks the snapshot format from the file extension: .json gets the JSON
// store, everything else the SQLite store.
func Open(path string, logger *log.Logger) Store {
	if logger == nil {
		logger = log.Default()
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path, logger)
}

// TaskEntry is a stored task whose category is a position in the category list.
type TaskEntry struct {
	Title         string
	Description   string
	DueDate       time.Time
	CategoryIndex int
}

// flatten converts pointer links into list positions.
func (s *Snapshot) flatten() ([]TaskEntry, *int, error) {
	catIndex := make(map[*model.Category]int, len(s.Categories))
	for i, c := range s.Categories {
		catIndex[c] = i
	}

	entries := make([]TaskEntry, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		idx, ok := catIndex[t.Category]
		if !ok {
			return nil, nil, fmt.Errorf("task %q references a category outside the snapshot", t.Title)
		}
		entries = append(entries, TaskEntry{
			Title:         t.Title,
			Description:   t.Description,
			DueDate:       t.DueDate,
			CategoryIndex: idx,
		})
	}

	if s.CurrentUser == nil {
		return entries, nil, nil
	}
	for i, u := range s.Users {
		if u == s.CurrentUser {
			return entries, &i, nil
		}
	}
	return nil, nil, fmt.Errorf("current user %q is not in the snapshot", s.CurrentUser.Username)
}

// assemble rebuilds pointer links from positions. Out-of-range positions mean the
// stored data is inconsistent.
func assemble(categories []*model.Category, users []*model.User, entries []TaskEntry, currentUser *int) (*Snapshot, error) {
	snap := &Snapshot{
		Categories: categories,
		Users:      users,
		Tasks:      make([]*model.Task, 0, len(entries)),
	}

	for i, e := range entries {
		if e.CategoryIndex < 0 || e.CategoryIndex >= len(categories) {
			return nil, fmt.Errorf("%w: task %d references category %d of %d", model.ErrDeserialization, i, e.CategoryIndex, len(categories))
		}
		snap.Tasks = append(snap.Tasks, model.NewTask(e.Title, e.Description, e.DueDate, categories[e.CategoryIndex]))
	}

	if currentUser != nil {
		if *currentUser < 0 || *currentUser >= len(users) {
			return nil, fmt.Errorf("%w: current user %d of %d", model.ErrDeserialization, *currentUser, len(users))
		}
		snap.CurrentUser = users[*currentUser]
	}
	return snap, nil
}

// missingSnapshot maps "nothing saved at path" to an fs.ErrNotExist error, or
// returns nil for any other error. A path below a regular file counts as missing.
func missingSnapshot(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("load snapshot: %w", err)
	case errors.Is(err, syscall.ENOTDIR):
		return fmt.Errorf("load snapshot: %w: %v", fs.ErrNotExist, err)
	}
	return nil
}

func checkHeader(format string, version int) error {
	if format != FormatName {
		return fmt.Errorf("%w: unknown format %q", model.ErrDeserialization, format)
	}
	if version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", model.ErrDeserialization, version)
	}
	return nil
}

// replaceFile runs write against a temp file next to path and renames it over
// path once write succeeds. The previous content survives a failed write.
func replaceFile(path string, write func(tmpPath string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %q: %w", path, err)
	}
	return nil
}
