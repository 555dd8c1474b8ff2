package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config captures logging configuration options.
type Config struct {
	Level    string
	Dir      string
	Filename string
}

// Logger wraps slog with printf-style helpers and per-module tags.
type Logger struct {
	slogger *slog.Logger
	file    *os.File
}

// New creates a Logger writing to stdout and, when Dir/Filename are set,
// to a log file as well.
func New(cfg Config) (*Logger, error) {
	var writers []io.Writer
	writers = append(writers, os.Stdout)

	var file *os.File
	if cfg.Dir != "" && cfg.Filename != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(cfg.Dir, cfg.Filename),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	return &Logger{
		slogger: slog.New(handler),
		file:    file,
	}, nil
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return &Logger{slogger: slog.New(handler)}
}

// Slog exposes the structured logger for integrations that want it directly.
func (l *Logger) Slog() *slog.Logger {
	return l.slogger
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Debug(format string, args ...any) {
	l.slogger.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.slogger.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.slogger.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.slogger.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) DebugTag(tag, format string, args ...any) {
	l.slogger.Debug(fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...)))
}

func (l *Logger) InfoTag(tag, format string, args ...any) {
	l.slogger.Info(fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...)))
}

func (l *Logger) WarnTag(tag, format string, args ...any) {
	l.slogger.Warn(fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...)))
}

func (l *Logger) ErrorTag(tag, format string, args ...any) {
	l.slogger.Error(fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...)))
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
