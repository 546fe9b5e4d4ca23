package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"task-tracker/internal/model"
)

type snapshotMeta struct {
	ID               uint `gorm:"primaryKey"`
	Format           string
	Version          int
	CurrentUserIndex *int
	SavedAt          time.Time
}

func (snapshotMeta) TableName() string { return "snapshot_meta" }

// SQLiteStore keeps a snapshot as a SQLite database file, one table per entity.
type SQLiteStore struct {
	path   string
	logger *log.Logger
}

func NewSQLiteStore(path string, logger *log.Logger) *SQLiteStore {
	if logger == nil {
		logger = log.Default()
	}
	return &SQLiteStore{path: path, logger: logger}
}

func (s *SQLiteStore) Path() string { return s.path }

// Save writes snap into a fresh database and swaps it in place of the old file.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	entries, currentUser, err := snap.flatten()
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	err = replaceFile(s.path, func(tmpPath string) (err error) {
		db, err := NewDB(tmpPath, s.logger)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closeDB(db); cerr != nil && err == nil {
				err = fmt.Errorf("close db: %w", cerr)
			}
		}()

		if err := Migrate(db); err != nil {
			return err
		}

		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			meta := snapshotMeta{
				Format:           FormatName,
				Version:          FormatVersion,
				CurrentUserIndex: currentUser,
				SavedAt:          time.Now().UTC(),
			}
			if err := tx.Create(&meta).Error; err != nil {
				return fmt.Errorf("create meta: %w", err)
			}
			if err := NewCategoryRepository(tx).CreateAll(ctx, snap.Categories); err != nil {
				return err
			}
			if err := NewUserRepository(tx).CreateAll(ctx, snap.Users); err != nil {
				return err
			}
			return NewTaskRepository(tx).CreateAll(ctx, entries)
		})
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved", "path", s.path, "tasks", len(snap.Tasks), "format", "sqlite")
	return nil
}

// Load reads the snapshot at the store path.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	if _, err := os.Stat(s.path); err != nil {
		if missing := missingSnapshot(err); missing != nil {
			return nil, missing
		}
		return nil, fmt.Errorf("%w: %v", model.ErrDeserialization, err)
	}

	db, err := NewDB(s.path, s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDeserialization, err)
	}
	defer closeDB(db)

	db = db.WithContext(ctx)
	if !db.Migrator().HasTable(&snapshotMeta{}) {
		return nil, fmt.Errorf("%w: %s is not a task-tracker database", model.ErrDeserialization, s.path)
	}

	var meta snapshotMeta
	if err := db.First(&meta).Error; err != nil {
		return nil, fmt.Errorf("%w: read meta: %v", model.ErrDeserialization, err)
	}
	if err := checkHeader(meta.Format, meta.Version); err != nil {
		return nil, err
	}

	categories, err := NewCategoryRepository(db).ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDeserialization, err)
	}
	users, err := NewUserRepository(db).ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDeserialization, err)
	}
	entries, err := NewTaskRepository(db).ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDeserialization, err)
	}

	snap, err := assemble(categories, users, entries, meta.CurrentUserIndex)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("snapshot loaded", "path", s.path, "tasks", len(snap.Tasks), "format", "sqlite")
	return snap, nil
}
