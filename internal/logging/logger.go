// Package logging provides the bridge's leveled log sink: a buffered,
// thread-safe, severity-filtered text log with a pluggable writer.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Level is a totally ordered log severity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "OFF"
	}
}

// flushThreshold is the buffer size (bytes) at which Log flushes
// automatically, per spec.md §4.A.
const flushThreshold = 3840

// Config holds logger construction parameters.
type Config struct {
	Level  Level
	Output io.Writer
}

// DefaultConfig returns the default configuration: Info level, stderr.
func DefaultConfig() *Config {
	return &Config{Level: LevelInfo, Output: os.Stderr}
}

// Logger is a buffered, mutex-guarded, severity-filtered text log.
//
// Messages are appended to an internal buffer under mu. The buffer is
// flushed (written to the configured writer) when it exceeds
// flushThreshold bytes or when a message at LevelError or above is
// logged. Flush swaps the buffer out under the lock and performs the
// actual write outside it, so a slow writer never blocks logging.
type Logger struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	level  Level
	writer io.Writer
}

// New creates a Logger from the given configuration. A nil config is
// equivalent to DefaultConfig().
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	return &Logger{level: cfg.Level, writer: w}
}

// SetLevel changes the filter level. Messages strictly below it are
// dropped with no side effect.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetWriter changes the flush destination.
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// Flush writes any buffered residue to the configured writer.
func (l *Logger) Flush() {
	l.mu.Lock()
	if l.buf.Len() == 0 {
		l.mu.Unlock()
		return
	}
	pending := l.buf.Bytes()
	out := make([]byte, len(pending))
	copy(out, pending)
	l.buf.Reset()
	w := l.writer
	l.mu.Unlock()

	if w != nil {
		_, _ = w.Write(out) // best-effort: a failing log must not abort the program
	}
}

// Close flushes any residue. Safe to call multiple times.
func (l *Logger) Close() error {
	l.Flush()
	return nil
}

func threadID() int {
	return unix.Gettid()
}

func (l *Logger) log(level Level, msg string) {
	l.mu.Lock()
	if level < l.level {
		l.mu.Unlock()
		return
	}
	fmt.Fprintf(&l.buf, "%d %s %s %s\n", threadID(), time.Now().Format(time.RFC3339Nano), level, msg)
	shouldFlush := l.buf.Len() > flushThreshold || level >= LevelError
	l.mu.Unlock()

	if shouldFlush {
		l.Flush()
	}
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	l.log(LevelTrace, fmt.Sprintf(format, args...))
}
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarning, fmt.Sprintf(format, args...))
}
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Default returns the process-wide default logger, creating it lazily.
func Default() *Logger {
	defaultMu.RLock()
	if defaultLogger != nil {
		defer defaultMu.RUnlock()
		return defaultLogger
	}
	defaultMu.RUnlock()

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(nil)
	}
	return defaultLogger
}

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
