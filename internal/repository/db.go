package repository

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the SQLite database file at path. Tables are created separately
// by Migrate.
func NewDB(path string, lg *log.Logger) (*gorm.DB, error) {
	if lg == nil {
		lg = log.Default()
	}

	dbLogger := logger.New(
		lg.StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel}),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

// Migrate creates the snapshot tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&snapshotMeta{}, &categoryRecord{}, &userRecord{}, &taskRecord{}); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
