package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"task-tracker/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", "err", err)
	}

	logger, err := newLogger(os.Stderr, cfg)
	if err != nil {
		log.Fatal("logger", "err", err)
	}

	app := &app{cfg: cfg, logger: logger, out: os.Stdout}
	if err := app.run(ctx, os.Args[1:]); err != nil {
		logger.Fatal("command failed", "err", err)
	}
}

func newLogger(w io.Writer, cfg config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	formatter := log.TextFormatter
	switch cfg.LogFormat {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		Prefix:          "tasktracker",
	}), nil
}
