package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// TaskManager owns the tasks, categories and users of one tracker and remembers
// the last successfully authenticated user. It is not safe for concurrent use.
type TaskManager struct {
	tasks       []*model.Task
	categories  []*model.Category
	users       []*model.User
	currentUser *model.User

	now        func() time.Time
	bcryptCost int
	logger     *log.Logger
}

// Option customizes a TaskManager.
type Option func(*TaskManager)

// WithClock replaces time.Now as the source of "now" for due checks.
func WithClock(now func() time.Time) Option {
	return func(m *TaskManager) { m.now = now }
}

// WithBcryptCost sets the cost used when hashing new passwords.
func WithBcryptCost(cost int) Option {
	return func(m *TaskManager) { m.bcryptCost = cost }
}

func WithLogger(logger *log.Logger) Option {
	return func(m *TaskManager) { m.logger = logger }
}

func NewTaskManager(opts ...Option) *TaskManager {
	m := &TaskManager{
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddCategory appends a category. Names are not required to be unique.
func (m *TaskManager) AddCategory(name string) *model.Category {
	category := model.NewCategory(name)
	m.categories = append(m.categories, category)
	m.logger.Debug("category added", "name", name)
	return category
}

// RegisterUser appends a new user unless the username is taken.
func (m *TaskManager) RegisterUser(username, password string) error {
	if m.findUser(username) != nil {
		return fmt.Errorf("%w: user %s already exists", model.ErrValidation, username)
	}

	user, err := model.NewUser(username, password, m.bcryptCost)
	if err != nil {
		return fmt.Errorf("register %s: %w", username, err)
	}

	m.users = append(m.users, user)
	m.logger.Debug("user registered", "username", username)
	return nil
}

// AuthenticateUser checks the password of the first user named username. On
// success that user becomes the current user. On failure nothing changes.
func (m *TaskManager) AuthenticateUser(username, password string) bool {
	user := m.findUser(username)
	if user == nil || !user.Authenticate(password) {
		m.logger.Debug("authentication failed", "username", username)
		return false
	}
	m.currentUser = user
	m.logger.Debug("user authenticated", "username", username)
	return true
}

// CurrentUser returns the last authenticated user or nil.
func (m *TaskManager) CurrentUser() *model.User {
	return m.currentUser
}

// AddTask appends a task linked to the first category named categoryName.
func (m *TaskManager) AddTask(title, description string, dueDate time.Time, categoryName string) (*model.Task, error) {
	category := m.findCategory(categoryName)
	if category == nil {
		return nil, fmt.Errorf("%w: category %s does not exist", model.ErrValidation, categoryName)
	}

	task := model.NewTask(title, description, dueDate, category)
	m.tasks = append(m.tasks, task)
	m.logger.Debug("task added", "title", title, "category", categoryName, "due", dueDate)
	return task, nil
}

// ListTasks returns the tasks that are not due yet, in insertion order.
func (m *TaskManager) ListTasks() []*model.Task {
	return m.filterTasks(false)
}

// ListDueTasks returns the tasks that are due, in insertion order.
func (m *TaskManager) ListDueTasks() []*model.Task {
	return m.filterTasks(true)
}

func (m *TaskManager) filterTasks(due bool) []*model.Task {
	now := m.now()
	var out []*model.Task
	for _, task := range m.tasks {
		if task.IsDue(now) == due {
			out = append(out, task)
		}
	}
	return out
}

func (m *TaskManager) Tasks() []*model.Task {
	return append([]*model.Task(nil), m.tasks...)
}

func (m *TaskManager) Categories() []*model.Category {
	return append([]*model.Category(nil), m.categories...)
}

func (m *TaskManager) Users() []*model.User {
	return append([]*model.User(nil), m.users...)
}

// Now returns the manager's current time.
func (m *TaskManager) Now() time.Time {
	return m.now()
}

// SaveData writes the whole manager state to destination, replacing any
// previous snapshot there. The format follows the file extension.
func (m *TaskManager) SaveData(ctx context.Context, destination string) error {
	store := repository.Open(destination, m.logger)
	snap := &repository.Snapshot{
		Categories:  m.categories,
		Users:       m.users,
		Tasks:       m.tasks,
		CurrentUser: m.currentUser,
	}
	if err := store.Save(ctx, snap); err != nil {
		return err
	}
	m.logger.Debug("data saved", "path", destination)
	return nil
}

// LoadData reads the snapshot at destination into a new TaskManager built with
// opts. A missing destination yields an empty manager.
func LoadData(ctx context.Context, destination string, opts ...Option) (*TaskManager, error) {
	m := NewTaskManager(opts...)

	snap, err := repository.Open(destination, m.logger).Load(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug("no data file, starting empty", "path", destination)
			return m, nil
		}
		return nil, err
	}

	m.tasks = snap.Tasks
	m.categories = snap.Categories
	m.users = snap.Users
	m.currentUser = snap.CurrentUser
	m.logger.Debug("data loaded", "path", destination, "tasks", len(m.tasks))
	return m, nil
}

func (m *TaskManager) findCategory(name string) *model.Category {
	for _, c := range m.categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (m *TaskManager) findUser(username string) *model.User {
	for _, u := range m.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
