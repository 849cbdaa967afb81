// Package logging provides console logging for the VoxGuard gateway.
// It wraps the standard log package with severity levels that can be changed
// at runtime when the configuration is reloaded.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel represents the severity level of log messages
type LogLevel int32

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel converts a string to LogLevel, defaulting to INFO
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Logger wraps the standard logger with a runtime-adjustable level
type Logger struct {
	logger *log.Logger
	level  atomic.Int32
}

var globalLogger atomic.Pointer[Logger]

// NewLogger creates a logger writing to w
func NewLogger(w io.Writer, level string) *Logger {
	l := &Logger{logger: log.New(w, "", log.LstdFlags|log.LUTC)}
	l.level.Store(int32(ParseLogLevel(level)))
	return l
}

// InitializeLogging sets up console logging with the specified level
func InitializeLogging(level string) {
	globalLogger.Store(NewLogger(os.Stdout, level))
}

// SetLevel changes the minimum level of the global logger
func SetLevel(level string) {
	if l := globalLogger.Load(); l != nil {
		l.level.Store(int32(ParseLogLevel(level)))
	}
}

// GetLogLevel returns the current log level
func GetLogLevel() LogLevel {
	if l := globalLogger.Load(); l != nil {
		return LogLevel(l.level.Load())
	}
	return INFO
}

// IsInitialized returns true if the global logger has been initialized
func IsInitialized() bool {
	return globalLogger.Load() != nil
}

// ReplaceStandardLogger routes the standard log package through the global
// logger's writer so library output shares one stream.
func ReplaceStandardLogger() {
	if l := globalLogger.Load(); l != nil {
		log.SetOutput(l.logger.Writer())
		log.SetFlags(log.LstdFlags | log.LUTC)
	}
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return int32(level) >= l.level.Load()
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}
	l.logger.Print(fmt.Sprintf("[%s] ", level) + fmt.Sprintf(format, args...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(DEBUG, format, args...) }

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) { l.logf(INFO, format, args...) }

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) { l.logf(WARN, format, args...) }

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) { l.logf(ERROR, format, args...) }

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.logf(FATAL, format, args...)
	os.Exit(1)
}

// Package-level functions that use the global logger. Before
// InitializeLogging they fall back to the standard log package.

// Debug logs a debug message using the global logger
func Debug(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Debug(format, args...)
	}
}

// Info logs an info message using the global logger
func Info(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Info(format, args...)
	} else {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message using the global logger
func Warn(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Warn(format, args...)
	} else {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message using the global logger
func Error(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Error(format, args...)
	} else {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Fatal logs a fatal message and exits the program using the global logger
func Fatal(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Fatal(format, args...)
	} else {
		log.Fatalf("[FATAL] "+format, args...)
	}
}
