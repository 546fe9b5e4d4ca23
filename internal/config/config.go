package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"

	"task-tracker/internal/service"
)

// DefaultConfigFile is read from the working directory when TASKTRACKER_CONFIG is unset.
const DefaultConfigFile = "tasktracker.toml"

// Config keeps runtime settings for the tracker CLI.
type Config struct {
	DataFile         string        `toml:"data_file"`
	BcryptCost       int           `toml:"bcrypt_cost"`
	LogLevel         string        `toml:"log_level"`
	LogFormat        string        `toml:"log_format"`
	ReminderInterval time.Duration `toml:"reminder_interval"`
	ReminderAt       string        `toml:"reminder_at"`
}

// Load builds the configuration from defaults, then the TOML config file if
// one exists, then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	path := strings.TrimSpace(os.Getenv("TASKTRACKER_CONFIG"))
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	// A missing default file is fine; a missing explicit one is not.
	if err := loadFile(&cfg, path); err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		DataFile:         "tasks.db",
		BcryptCost:       bcrypt.DefaultCost,
		LogLevel:         "info",
		LogFormat:        "text",
		ReminderInterval: time.Hour,
	}
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("TASKTRACKER_DATA_FILE")); v != "" {
		cfg.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKTRACKER_BCRYPT_COST")); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TASKTRACKER_BCRYPT_COST: %w", err)
		}
		cfg.BcryptCost = cost
	}
	if v := strings.TrimSpace(os.Getenv("TASKTRACKER_LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("TASKTRACKER_LOG_FORMAT")); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("TASKTRACKER_REMINDER_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TASKTRACKER_REMINDER_INTERVAL: %w", err)
		}
		cfg.ReminderInterval = d
	}
	if v := strings.TrimSpace(os.Getenv("TASKTRACKER_REMINDER_AT")); v != "" {
		cfg.ReminderAt = v
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.DataFile == "" {
		return fmt.Errorf("data file is required")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.ReminderInterval < 0 {
		return fmt.Errorf("reminder interval must not be negative")
	}
	if cfg.ReminderAt != "" {
		if err := service.ValidateDailyTime(cfg.ReminderAt); err != nil {
			return fmt.Errorf("reminder time: %w", err)
		}
	}
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return nil
}
