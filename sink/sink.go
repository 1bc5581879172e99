// Package sink provides default implementations of the persistence
// interface the data-port handler writes decoded frames to (spec.md §6):
// one mutex-guarded wrapper per destination, grounded on the teacher's
// backend.Memory's lock-around-the-write shape.
package sink

import (
	"io"
	"os"
	"sync"
)

// Writer is an io.Writer-backed sink: every Write call is serialized
// through a mutex, since the data-port handler may be invoked from the
// reactor goroutine while an operator-facing flush happens concurrently.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdout returns a sink writing decoded frames to standard output —
// the default when the driver is given no other writer (spec.md §6:
// "If no writer is configured, the bytes are written to standard output").
func NewStdout() *Writer {
	return &Writer{w: os.Stdout}
}

// NewFile opens path for appending (creating it if absent) and returns a
// sink writing decoded frames to it. The caller is responsible for closing
// the returned file handle via Close.
func NewFile(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{w: f}, nil
}

// Write satisfies interfaces.Sink. Ordering is preserved: callers never
// need to flush, and overlapping calls are serialized, not interleaved.
func (s *Writer) Write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(p)
	return err
}

// Close closes the underlying writer if it implements io.Closer (the file
// case); a no-op for os.Stdout.
func (s *Writer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.w.(io.Closer); ok && s.w != os.Stdout {
		return c.Close()
	}
	return nil
}
