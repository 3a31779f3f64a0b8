package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "msfs_dashboard.log"

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
}

// newLogger logs to stderr and to a rotating JSON file in cfg.Dir. The
// returned closer flushes and closes the file.
func newLogger(cfg LogConfig, console io.Writer) (*slog.Logger, io.Closer) {
	level, levelErr := parseLevel(cfg.Level)

	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, logFileName),
		MaxSize:    16, // MB
		MaxBackups: 3,
	}
	if level == slog.LevelDebug {
		file.MaxSize = 128
	}

	logger := slog.New(teeHandler{
		tint.NewHandler(console, &tint.Options{Level: level, TimeFormat: time.TimeOnly}),
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
	})
	if levelErr != nil {
		logger.Warn("falling back to info logging", "error", levelErr)
	}
	logger.Info("MSFS Dashboard starting", "version", Version, "pid", os.Getpid(), "logFile", file.Filename)
	return logger, file
}

// teeHandler fans records out to every handler that accepts the level.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
