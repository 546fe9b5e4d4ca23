package service_test

import (
	"strings"
	"testing"
	"time"

	"task-tracker/internal/service"
)

func TestReminderService_Summary(t *testing.T) {
	m, _ := newTestManager(t)
	m.AddCategory("Work")
	m.AddCategory("Personal")
	mustAdd := func(title string, off time.Duration, category string) {
		t.Helper()
		if _, err := m.AddTask(title, "notes for "+title, baseTime.Add(off), category); err != nil {
			t.Fatalf("AddTask %s: %v", title, err)
		}
	}
	mustAdd("Far away", 10*24*time.Hour, "Work")
	mustAdd("Tomorrow", 24*time.Hour, "Personal")
	mustAdd("Yesterday", -24*time.Hour, "Work")

	got := service.NewReminderService().Summary(m)

	for _, want := range []string{
		"Upcoming tasks",
		"⏳ Tomorrow (Personal)",
		"🟢 Far away (Work)",
		"⚠️ Yesterday (Work)",
		"overdue",
		"📝 notes for Tomorrow",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}

	if strings.Index(got, "Tomorrow") > strings.Index(got, "Far away") {
		t.Fatalf("upcoming tasks should be ordered by due date:\n%s", got)
	}
	if strings.Index(got, "Due tasks") > strings.Index(got, "Yesterday") {
		t.Fatalf("Yesterday should be listed under due tasks:\n%s", got)
	}
}

func TestReminderService_SummaryEmpty(t *testing.T) {
	m, _ := newTestManager(t)

	got := service.NewReminderService().Summary(m)
	if !strings.Contains(got, "nothing upcoming") || !strings.Contains(got, "nothing due") {
		t.Fatalf("unexpected empty summary:\n%s", got)
	}
}

func TestReminderService_SummaryShowsCurrentUser(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.RegisterUser("john_doe", "password123"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if !m.AuthenticateUser("john_doe", "password123") {
		t.Fatal("authenticate")
	}

	got := service.NewReminderService().Summary(m)
	if !strings.Contains(got, "👤 john_doe") {
		t.Fatalf("summary should name the current user:\n%s", got)
	}
}

func TestReminderService_DueCount(t *testing.T) {
	m, clock := newTestManager(t)
	m.AddCategory("Work")
	if _, err := m.AddTask("a", "", baseTime.Add(time.Hour), "Work"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	svc := service.NewReminderService()
	if n := svc.DueCount(m); n != 0 {
		t.Fatalf("expected 0 due, got %d", n)
	}
	clock.now = baseTime.Add(time.Hour)
	if n := svc.DueCount(m); n != 1 {
		t.Fatalf("expected 1 due, got %d", n)
	}
}
