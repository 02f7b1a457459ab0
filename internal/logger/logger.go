// Package logger provides a simple leveled logger for the player.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Component loggers created with Named
// share the parent's level and outputs. The logger is safe for
// concurrent use.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the flag spelling of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// ParseLevel maps a config string to a Level. Accepts the String
// spellings plus "quiet" and "debug".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "quiet", "none":
		return LevelOff, nil
	case "", "normal", "info":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	default:
		return LevelNormal, fmt.Errorf("unknown log level %q", s)
	}
}

// core is shared between a logger and all of its named children.
type core struct {
	mu     sync.RWMutex
	level  Level
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	c      *core
	prefix string
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	flags := log.Ltime | log.Lmicroseconds

	return &Logger{c: &core{
		level:  level,
		debug:  log.New(out, "[DBG] ", flags),
		info:   log.New(out, "[INF] ", flags),
		warn:   log.New(out, "[WRN] ", flags),
		errLog: log.New(out, "[ERR] ", flags),
	}}
}

// Named returns a child logger whose messages are tagged with name.
// Nested names are joined with a dot.
func (l *Logger) Named(name string) *Logger {
	p := name
	if l.prefix != "" {
		p = l.prefix + "." + name
	}
	return &Logger{c: l.c, prefix: p}
}

// SetLevel changes the log level at runtime for this logger and every
// logger sharing its outputs.
func (l *Logger) SetLevel(level Level) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()
	l.c.level = level
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.c.mu.RLock()
	defer l.c.mu.RUnlock()
	return l.c.level
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.output(LevelVerbose, l.c.debug, format, args)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.output(LevelNormal, l.c.info, format, args)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.output(LevelNormal, l.c.warn, format, args)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.output(LevelNormal, l.c.errLog, format, args)
}

func (l *Logger) output(min Level, dst *log.Logger, format string, args []any) {
	l.c.mu.RLock()
	defer l.c.mu.RUnlock()
	if l.c.level < min {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = l.prefix + ": " + msg
	}
	dst.Output(3, msg)
}
