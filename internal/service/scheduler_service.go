package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// SchedulerService runs reminder jobs on a cron clock.
type SchedulerService struct {
	cron   *cron.Cron
	logger *log.Logger
}

func NewSchedulerService(loc *time.Location, logger *log.Logger) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.PrintfLogger(logger.StandardLog()))),
		),
		logger: logger,
	}
}

// ScheduleDaily registers job to run every day at the HH:MM time.
func (s *SchedulerService) ScheduleDaily(at string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(at)
	if err != nil {
		return 0, err
	}
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, fmt.Errorf("schedule daily %s: %w", at, err)
	}
	s.logger.Debug("daily job scheduled", "at", at, "spec", spec)
	return id, nil
}

// ScheduleInterval registers job to run every interval, rounded down to whole
// seconds with a one second floor.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return 0, fmt.Errorf("schedule every %s: %w", interval, err)
	}
	s.logger.Debug("interval job scheduled", "every", interval)
	return id, nil
}

// Jobs returns the number of registered jobs.
func (s *SchedulerService) Jobs() int {
	return len(s.cron.Entries())
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ValidateDailyTime reports whether at is a usable HH:MM time.
func ValidateDailyTime(at string) error {
	_, err := buildDailySpec(at)
	return err
}

func buildDailySpec(at string) (string, error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", at)
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
