// Package logger is wsagent's levelled logger.
//
// The default threshold is LevelError, so a normal run only reports failures.
// --verbose or LOG_LEVEL=debug lowers it to LevelDebug; LOG_LEVEL=info and
// LOG_LEVEL=warn sit in between.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level orders log lines by severity.
type Level int

// Levels from most to least chatty.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel accepts a level name in any case.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelError, false
}

var (
	mu        sync.Mutex
	threshold Level     = LevelError
	out       io.Writer = os.Stderr
)

// SetLevel sets the lowest level that gets written.
func SetLevel(l Level) {
	mu.Lock()
	threshold = l
	mu.Unlock()
}

// SetVerbose switches between everything (true) and errors only (false).
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelError)
	}
}

// IsVerbose reports whether debug lines are written.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return threshold <= LevelDebug
}

// SetOutput redirects all log lines to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

// FromEnv applies LOG_LEVEL. Unset or unknown values change nothing.
func FromEnv() {
	if l, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		SetLevel(l)
	}
}

func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < threshold {
		return
	}
	fmt.Fprintf(out, "["+l.String()+"] "+format+"\n", args...)
}

func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }

func Info(format string, args ...any) { logf(LevelInfo, format, args...) }

func Warn(format string, args ...any) { logf(LevelWarn, format, args...) }

// Error is always written: no threshold sits above it.
func Error(format string, args ...any) { logf(LevelError, format, args...) }

// Section writes a banner between debug lines, e.g. around each agent stage.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if threshold > LevelDebug {
		return
	}
	fmt.Fprintf(out, "\n=== %s ===\n", name)
}
