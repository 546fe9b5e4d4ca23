package model_test

import (
	"strings"
	"testing"
	"time"

	"task-tracker/internal/model"
)

func TestTask_IsDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	work := model.NewCategory("Work")

	tests := []struct {
		name string
		due  time.Time
		want bool
	}{
		{"past", now.Add(-time.Hour), true},
		{"exactly now", now, true},
		{"one nanosecond later", now.Add(time.Nanosecond), false},
		{"future", now.Add(48 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := model.NewTask("Report", "desc", tt.due, work)
			if got := task.IsDue(now); got != tt.want {
				t.Fatalf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTask_String(t *testing.T) {
	due := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	task := model.NewTask("Report", "desc", due, model.NewCategory("Work"))

	got := task.String()
	for _, want := range []string{"title=Report", "2025-03-12 09:30:00", "Category(name=Work)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("String() = %q, missing %q", got, want)
		}
	}
}
