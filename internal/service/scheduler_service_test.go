package service

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"08:30", "0 30 8 * * *", false},
		{"0:00", "0 0 0 * * *", false},
		{"23:59", "0 59 23 * * *", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
		{"12:30:00", "", true},
	}

	for _, tt := range tests {
		got, err := buildDailySpec(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("buildDailySpec(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("buildDailySpec(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSchedulerService_ScheduleInterval(t *testing.T) {
	s := NewSchedulerService(time.UTC, log.New(io.Discard))

	if _, err := s.ScheduleInterval(0, func() {}); err == nil {
		t.Fatal("expected an error for a zero interval")
	}

	var runs atomic.Int32
	if _, err := s.ScheduleInterval(time.Second, func() { runs.Add(1) }); err != nil {
		t.Fatalf("ScheduleInterval: %v", err)
	}
	if _, err := s.ScheduleDaily("07:15", func() {}); err != nil {
		t.Fatalf("ScheduleDaily: %v", err)
	}
	if n := s.Jobs(); n != 2 {
		t.Fatalf("expected 2 jobs, got %d", n)
	}

	s.Start()
	deadline := time.Now().Add(5 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()

	if runs.Load() == 0 {
		t.Fatal("interval job never ran")
	}
}
