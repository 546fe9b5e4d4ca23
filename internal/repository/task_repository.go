package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type taskRecord struct {
	ID            uint `gorm:"primaryKey"`
	Position      int  `gorm:"uniqueIndex"`
	Title         string
	Description   string
	DueDate       time.Time
	CategoryIndex int
}

func (taskRecord) TableName() string { return "task_records" }

// TaskRepository stores tasks with their category position.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateAll(ctx context.Context, entries []TaskEntry) error {
	if len(entries) == 0 {
		return nil
	}
	records := make([]taskRecord, 0, len(entries))
	for i, e := range entries {
		records = append(records, taskRecord{
			Position:      i,
			Title:         e.Title,
			Description:   e.Description,
			DueDate:       e.DueDate,
			CategoryIndex: e.CategoryIndex,
		})
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("create tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListOrdered(ctx context.Context) ([]TaskEntry, error) {
	var records []taskRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	entries := make([]TaskEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, TaskEntry{
			Title:         rec.Title,
			Description:   rec.Description,
			DueDate:       rec.DueDate,
			CategoryIndex: rec.CategoryIndex,
		})
	}
	return entries, nil
}
