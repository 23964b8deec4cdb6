// Package logger provides leveled, structured logging for edisort.
//
// Messages take key/value pairs after the message, e.g.
//
//	logger.Info("moved", "file", name, "dest", dir)
//
// Warnings and errors are always written. Debug output and section headers
// only appear once verbose mode is enabled via the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	base              = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "edisort",
	})
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = newLogger(output, v)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = newLogger(w, verbose)
}

// With returns a logger that carries keyvals on every line.
// It is bound to the output and level current at the time of the call.
func With(keyvals ...any) *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With(keyvals...)
}

// Debug logs a message if verbose mode is enabled.
func Debug(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Debug(msg, keyvals...)
}

// Info logs an informational message.
func Info(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Info(msg, keyvals...)
}

// Warn logs a warning.
func Warn(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Warn(msg, keyvals...)
}

// Error logs an error.
func Error(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Error(msg, keyvals...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
