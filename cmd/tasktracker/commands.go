package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"task-tracker/internal/config"
	"task-tracker/internal/model"
	"task-tracker/internal/service"
)

var errAuthFailed = errors.New("authentication failed")

type app struct {
	cfg    config.Config
	logger *log.Logger
	out    io.Writer
	now    func() time.Time
}

const usage = `usage: tasktracker <command> [flags]

commands:
  demo           run the demonstration flow (default)
  register       -username -password
  login          -username -password
  whoami         print the authenticated user
  add-category   -name
  add-task       -title -description -due -category
  list           upcoming tasks
  due            due tasks
  report         summary of upcoming and due tasks
  export         -format json|csv|pdf -out path
  watch          log reminders on a schedule until interrupted`

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.demo(ctx, nil)
	}

	cmd, rest := args[0], args[1:]
	a.logger.Debug("command", "name", cmd, "data", a.cfg.DataFile)
	switch cmd {
	case "demo":
		return a.demo(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "whoami":
		return a.whoami(ctx)
	case "add-category":
		return a.addCategory(ctx, rest)
	case "add-task":
		return a.addTask(ctx, rest)
	case "list":
		return a.list(ctx, false)
	case "due":
		return a.list(ctx, true)
	case "report":
		return a.report(ctx)
	case "export":
		return a.export(ctx, rest)
	case "watch":
		return a.watch(ctx)
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		fmt.Fprintln(a.out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func (a *app) managerOptions() []service.Option {
	return []service.Option{
		service.WithClock(a.clock),
		service.WithBcryptCost(a.cfg.BcryptCost),
		service.WithLogger(a.logger),
	}
}

func (a *app) load(ctx context.Context) (*service.TaskManager, error) {
	return service.LoadData(ctx, a.cfg.DataFile, a.managerOptions()...)
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *app) demo(ctx context.Context, args []string) error {
	fs := a.flagSet("demo")
	file := fs.String("file", "task_manager.db", "snapshot written by the demo (.json for JSON)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m := service.NewTaskManager(a.managerOptions()...)

	if err := m.RegisterUser("john_doe", "password123"); err != nil {
		return err
	}
	if m.AuthenticateUser("john_doe", "password123") {
		fmt.Fprintln(a.out, "User authenticated successfully.")
	}

	m.AddCategory("Work")
	m.AddCategory("Personal")

	now := a.clock()
	if _, err := m.AddTask("Complete project report", "Finish the report by the end of the week", now.Add(48*time.Hour), "Work"); err != nil {
		return err
	}
	if _, err := m.AddTask("Buy groceries", "Purchase groceries for the week", now.Add(24*time.Hour), "Personal"); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Upcoming tasks:")
	printTasks(a.out, m.ListTasks())
	fmt.Fprintln(a.out, "Due tasks:")
	printTasks(a.out, m.ListDueTasks())

	if err := m.SaveData(ctx, *file); err != nil {
		return err
	}

	loaded, err := service.LoadData(ctx, *file, a.managerOptions()...)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Loaded tasks:")
	printTasks(a.out, loaded.ListTasks())
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("%w: -username is required", model.ErrValidation)
	}

	m, err := a.load(ctx)
	if err != nil {
		return err
	}
	if err := m.RegisterUser(*username, *password); err != nil {
		return err
	}
	if err := m.SaveData(ctx, a.cfg.DataFile); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s.\n", *username)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := a.load(ctx)
	if err != nil {
		return err
	}
	if !m.AuthenticateUser(*username, *password) {
		return errAuthFailed
	}
	if err := m.SaveData(ctx, a.cfg.DataFile); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User authenticated successfully.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	m, err := a.load(ctx)
	if err != nil {
		return err
	}
	if user := m.CurrentUser(); user != nil {
		fmt.Fprintln(a.out, user)
		return nil
	}
	fmt.Fprintln(a.out, "Not authenticated.")
	return nil
}

func (a *app) addCategory(ctx context.Context, args []string) error {
	fs := a.flagSet("add-category")
	name := fs.String("name", "", "category name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: -name is required", model.ErrValidation)
	}

	m, err := a.load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, m.AddCategory(*name))
	return m.SaveData(ctx, a.cfg.DataFile)
}

func (a *app) addTask(ctx context.Context, args []string) error {
	fs := a.flagSet("add-task")
	title := fs.String("title", "", "task title")
	description := fs.String("description", "", "task description")
	dueRaw := fs.String("due", "24h", "due date (RFC3339, YYYY-MM-DD, or offset from now like 48h)")
	category := fs.String("category", "", "existing category name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	due, err := parseDue(*dueRaw, a.clock())
	if err != nil {
		return err
	}

	m, err := a.load(ctx)
	if err != nil {
		return err
	}
	task, err := m.AddTask(*title, *description, due, *category)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, task)
	return m.SaveData(ctx, a.cfg.DataFile)
}

func (a *app) list(ctx context.Context, due bool) error {
	m, err := a.load(ctx)
	if err != nil {
		return err
	}
	if due {
		printTasks(a.out, m.ListDueTasks())
	} else {
		printTasks(a.out, m.ListTasks())
	}
	return nil
}

func (a *app) report(ctx context.Context) error {
	m, err := a.load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, service.NewReminderService().Summary(m))
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flagSet("export")
	format := fs.String("format", "json", "export format: json|csv|pdf")
	out := fs.String("out", "", "output path (stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := a.load(ctx)
	if err != nil {
		return err
	}
	data, err := service.NewExporter().Export(m, *format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if *out == "" {
		_, err := a.out.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	fmt.Fprintf(a.out, "Exported -> %s\n", *out)
	return nil
}

func (a *app) watch(ctx context.Context) error {
	if a.cfg.ReminderInterval == 0 && a.cfg.ReminderAt == "" {
		return fmt.Errorf("nothing to schedule: set a reminder interval or reminder time")
	}

	reminders := service.NewReminderService()
	job := func() {
		jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		m, err := a.load(jobCtx)
		if err != nil {
			a.logger.Error("reminder", "err", err)
			return
		}
		a.logger.Info("reminder", "due", reminders.DueCount(m), "upcoming", len(m.ListTasks()))
		fmt.Fprintln(a.out, reminders.Summary(m))
	}

	scheduler := service.NewSchedulerService(time.Local, a.logger)
	if a.cfg.ReminderInterval > 0 {
		if _, err := scheduler.ScheduleInterval(a.cfg.ReminderInterval, job); err != nil {
			return fmt.Errorf("schedule reminders: %w", err)
		}
	}
	if a.cfg.ReminderAt != "" {
		if _, err := scheduler.ScheduleDaily(a.cfg.ReminderAt, job); err != nil {
			return fmt.Errorf("schedule reminders: %w", err)
		}
	}

	scheduler.Start()
	defer scheduler.Stop()
	a.logger.Info("watching", "data", a.cfg.DataFile, "every", a.cfg.ReminderInterval, "at", a.cfg.ReminderAt)

	<-ctx.Done()
	a.logger.Info("shutdown complete")
	return nil
}

func printTasks(w io.Writer, tasks []*model.Task) {
	for _, task := range tasks {
		fmt.Fprintln(w, task)
	}
}

// parseDue accepts RFC3339, a bare date, or a duration offset from now.
func parseDue(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return now.Add(d), nil
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse due date %q", model.ErrValidation, raw)
}
