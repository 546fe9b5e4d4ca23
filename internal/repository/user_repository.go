package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

type userRecord struct {
	ID           uint `gorm:"primaryKey"`
	Position     int  `gorm:"uniqueIndex"`
	Username     string
	PasswordHash string
}

func (userRecord) TableName() string { return "user_records" }

// UserRepository stores the ordered user list of a snapshot.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateAll(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}
	records := make([]userRecord, 0, len(users))
	for i, u := range users {
		records = append(records, userRecord{Position: i, Username: u.Username, PasswordHash: u.PasswordHash})
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	return nil
}

func (r *UserRepository) ListOrdered(ctx context.Context) ([]*model.User, error) {
	var records []userRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]*model.User, 0, len(records))
	for _, rec := range records {
		users = append(users, &model.User{Username: rec.Username, PasswordHash: rec.PasswordHash})
	}
	return users, nil
}
