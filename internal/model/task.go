package model

import (
	"fmt"
	"time"
)

// Task represents a single item in the tracker.
// Category points into the owning manager's category list.
type Task struct {
	Title       string
	Description string
	DueDate     time.Time
	Category    *Category
}

func NewTask(title, description string, dueDate time.Time, category *Category) *Task {
	return &Task{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Category:    category,
	}
}

// IsDue reports whether the due date is at or before now.
func (t *Task) IsDue(now time.Time) bool {
	return !t.DueDate.After(now)
}

func (t *Task) String() string {
	category := "<nil>"
	if t.Category != nil {
		category = t.Category.String()
	}
	return fmt.Sprintf("Task(title=%s, due_date=%s, category=%s)", t.Title, t.DueDate.Format("2006-01-02 15:04:05"), category)
}
