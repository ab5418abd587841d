// Package logger is the process-wide structured logger. Records go through
// log/slog and are rendered by a charmbracelet/log handler on stderr.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	// testOutput is used to capture log output during tests
	testOutput   io.Writer
	testOutputMu sync.Mutex
)

// Fields is a type alias for log fields to make the API cleaner
type Fields map[string]interface{}

// Format selects how records are rendered.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	logger   *slog.Logger
	loggerMu sync.Mutex
)

// SetTestOutput sets the output writer for testing purposes
func SetTestOutput(w io.Writer) {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = w
}

// UnsetTestOutput resets the test output to nil
func UnsetTestOutput() {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = nil
}

func getOutput() io.Writer {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	if testOutput != nil {
		return testOutput
	}
	return os.Stderr
}

// ParseLevel maps a level name to a charm log level. Unknown names are info.
func ParseLevel(name string) charmlog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return charmlog.DebugLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// InitLogger initializes the global logger for CLI operations.
func InitLogger(logLevel string, format Format) {
	formatter := charmlog.TextFormatter
	if format == FormatJSON {
		formatter = charmlog.JSONFormatter
	}

	handler := charmlog.NewWithOptions(getOutput(), charmlog.Options{
		Level:     ParseLevel(logLevel),
		Formatter: formatter,
		Prefix:    "pack",
	})

	loggerMu.Lock()
	logger = slog.New(handler)
	loggerMu.Unlock()
}

// GetLogger returns the configured logger instance.
func GetLogger() *slog.Logger {
	loggerMu.Lock()
	l := logger
	loggerMu.Unlock()
	if l == nil {
		InitLogger("info", FormatText)
		return GetLogger()
	}
	return l
}

// Debug logs a debug message (only shown when debug level is enabled).
func Debug(msg string, fields ...Fields) {
	GetLogger().Debug(msg, mergeFields(fields...)...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) {
	GetLogger().Warn(msg, mergeFields(fields...)...)
}

// mergeFields merges multiple field maps into one slice of key-value pairs for slog.
func mergeFields(fields ...Fields) []interface{} {
	result := []interface{}{}
	for _, field := range fields {
		for k, v := range field {
			result = append(result, k, v)
		}
	}
	return result
}
