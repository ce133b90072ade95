// Package logging provides config-driven categorized file-based logging
// for chirp. Logs are written to the configured directory with one file
// per category. When debug_mode is off, every logger is a silent no-op
// so a scheduled production run leaves no files behind.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config, secrets presence
	CategoryAgent      Category = "agent"      // Action selection, strategies
	CategoryPerception Category = "perception" // LLM API calls
	CategoryNews       Category = "news"       // News provider calls, media
	CategoryBrowser    Category = "browser"    // Surface navigation and input
	CategoryDispatch   Category = "dispatch"   // Publish/reply handoff
	CategoryStore      Category = "store"      // History persistence
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Settings controls the file logger. Mirrors config.LoggingConfig to
// avoid a circular import.
type Settings struct {
	DebugMode  bool
	Level      string
	Categories map[string]bool
}

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	settings  Settings
	configMu  sync.RWMutex
	logLevel  int
)

// Initialize sets up the logging directory and stores the settings.
// Should be called once at startup. A no-op when debug mode is off.
func Initialize(dir string, s Settings) error {
	configMu.Lock()
	settings = s
	switch s.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	configMu.Unlock()

	if !s.DebugMode {
		return nil
	}
	if dir == "" {
		return fmt.Errorf("logging directory required")
	}
	logsDir = dir

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== chirp logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", s.Level)
	return nil
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return settings.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !settings.DebugMode {
		return false
	}
	if settings.Categories == nil {
		return true
	}
	enabled, exists := settings.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category. Returns a
// no-op logger if debug mode or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	path := filepath.Join(logsDir, string(category)+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] could not open %s: %v\n", path, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		logger:   log.New(file, "", log.LstdFlags|log.Lmicroseconds),
		file:     file,
	}
	loggers[category] = l
	return l
}

// Close closes all open log files.
func Close() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for cat, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
		delete(loggers, cat)
	}
}

func (l *Logger) write(level int, prefix, format string, args ...interface{}) {
	if l == nil || l.logger == nil {
		return
	}
	configMu.RLock()
	threshold := logLevel
	configMu.RUnlock()
	if level < threshold {
		return
	}
	l.logger.Printf("[%s] %s", prefix, fmt.Sprintf(format, args...))
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, "DEBUG", format, args...)
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, "INFO", format, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, "WARN", format, args...)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, "ERROR", format, args...)
}
