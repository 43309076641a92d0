// Package output provides terminal output utilities.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// logger is the package-level logger instance.
var logger *log.Logger

// Stdout receives user-facing output (summaries, diffs). Tests may replace it.
var Stdout io.Writer = os.Stdout

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
}

// LogConfig controls how SetupLogging configures the logger.
type LogConfig struct {
	// Verbose enables debug level, caller reporting and timestamps.
	Verbose bool

	// Timestamps overrides timestamp display. Nil means on.
	Timestamps *bool
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// SetupLogging configures the logger from cfg.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// IsVerbose reports whether debug logging is enabled.
func IsVerbose() bool {
	return logger.GetLevel() <= log.DebugLevel
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// DebugWriter returns a writer that logs each write at debug level under
// the given prefix, or io.Discard when debug logging is off.
func DebugWriter(prefix string) io.Writer {
	if !IsVerbose() {
		return io.Discard
	}
	return logger.With("stream", prefix).StandardLog(log.StandardLogOptions{
		ForceLevel: log.DebugLevel,
	}).Writer()
}

// Print prints a message to stdout without any formatting.
func Print(msg string) {
	io.WriteString(Stdout, msg) //nolint:errcheck // terminal output
}

// Println prints a message to stdout with a newline.
func Println(msg string) {
	io.WriteString(Stdout, msg+"\n") //nolint:errcheck // terminal output
}
