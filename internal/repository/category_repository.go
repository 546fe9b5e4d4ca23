package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

type categoryRecord struct {
	ID       uint `gorm:"primaryKey"`
	Position int  `gorm:"uniqueIndex"`
	Name     string
}

func (categoryRecord) TableName() string { return "category_records" }

// CategoryRepository stores the ordered category list of a snapshot.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) CreateAll(ctx context.Context, categories []*model.Category) error {
	if len(categories) == 0 {
		return nil
	}
	records := make([]categoryRecord, 0, len(categories))
	for i, c := range categories {
		records = append(records, categoryRecord{Position: i, Name: c.Name})
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("create categories: %w", err)
	}
	return nil
}

func (r *CategoryRepository) ListOrdered(ctx context.Context) ([]*model.Category, error) {
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make([]*model.Category, 0, len(records))
	for _, rec := range records {
		categories = append(categories, model.NewCategory(rec.Name))
	}
	return categories, nil
}
