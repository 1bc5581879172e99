// Package interfaces provides internal interface definitions for
// mmwave-bridge. These are separate from the public package to avoid
// circular imports between it and the internal packages.
package interfaces

import "io"

// Port is the serial transport a Endpoint drives. On Linux it is backed by
// an opened TTY file descriptor; tests back it with an in-memory pipe.
type Port interface {
	io.Reader
	io.Writer
	io.Closer
	// Fd returns the underlying file descriptor, for termios ioctls and
	// readiness probing. Returns -1 if the port has no OS file descriptor.
	Fd() int
}

// Logger is the leveled-log-sink contract components depend on.
type Logger interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Observer collects frame/TLV/I/O metrics. Implementations must be
// thread-safe: methods are called from the reactor goroutine and from
// endpoint reader/writer goroutines.
type Observer interface {
	ObserveFrameDecoded(tlvCount int, bytes int)
	ObserveDecodeError()
	ObserveResync()
	ObserveBytesRead(port string, n int)
	ObserveBytesWritten(port string, n int)
}

// Sink is the persistence contract the data-port handler writes decoded
// frames to. Out of scope per spec.md §1 — specified only at this
// interface; core components depend on nothing more than this.
type Sink interface {
	Write(p []byte) error
}
