package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"task-tracker/internal/model"
)

const soonWindow = 48 * time.Hour

const (
	iconLater   = "🟢"
	iconSoon    = "⏳"
	iconOverdue = "⚠️"
)

// ReminderService builds human-readable summaries of upcoming and due tasks.
type ReminderService struct{}

func NewReminderService() *ReminderService {
	return &ReminderService{}
}

// Summary renders the manager's tasks as of the manager's clock. Upcoming
// tasks are ordered by due date, due tasks keep insertion order.
func (s *ReminderService) Summary(m *TaskManager) string {
	now := m.Now()

	upcoming := m.ListTasks()
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})
	due := m.ListDueTasks()

	var builder strings.Builder
	builder.WriteString("📋 Task report\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02 15:04")))
	if user := m.CurrentUser(); user != nil {
		builder.WriteString(fmt.Sprintf("👤 %s\n", user.Username))
	}

	builder.WriteString("\n🔥 Upcoming tasks\n")
	if len(upcoming) == 0 {
		builder.WriteString("— nothing upcoming\n")
	} else {
		for _, task := range upcoming {
			builder.WriteString(formatTask(task, now))
		}
	}

	builder.WriteString("\n⏰ Due tasks\n")
	if len(due) == 0 {
		builder.WriteString("— nothing due\n")
	} else {
		for _, task := range due {
			builder.WriteString(formatTask(task, now))
		}
	}

	return strings.TrimSpace(builder.String())
}

// DueCount returns how many tasks are due right now.
func (s *ReminderService) DueCount(m *TaskManager) int {
	return len(m.ListDueTasks())
}

func formatTask(task *model.Task, now time.Time) string {
	var sb strings.Builder

	d := task.DueDate.In(now.Location())
	icon := iconLater
	switch {
	case task.IsDue(now):
		icon = iconOverdue
	case d.Sub(now) <= soonWindow:
		icon = iconSoon
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, strings.TrimSpace(task.Title)))

	if task.Category != nil {
		if name := strings.TrimSpace(task.Category.Name); name != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", name))
		}
	}

	if task.IsDue(now) {
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, overdue", d.Format("2006-01-02 15:04")))
	} else {
		daysLeft := int(d.Sub(now).Hours()/24) + 1
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, ≈%d day(s) left", d.Format("2006-01-02 15:04"), daysLeft))
	}

	if desc := strings.TrimSpace(task.Description); desc != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", desc))
	}

	sb.WriteByte('\n')
	return sb.String()
}
