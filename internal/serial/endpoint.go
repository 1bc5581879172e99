// Package serial implements the bridge's serial endpoint: the async
// read/write discipline the reactor dispatches completions to, grounded on
// the teacher's single-pending-operation state machine in
// internal/queue/runner.go but built against blocking character-device I/O
// instead of io_uring SQEs.
package serial

import (
	"sync"
	"unsafe"

	"github.com/llhlol/mmwave-bridge/internal/constants"
	"github.com/llhlol/mmwave-bridge/internal/interfaces"
	"github.com/llhlol/mmwave-bridge/internal/reactor"
)

// OpenFunc opens and configures a named serial port at the given baud rate.
// The platform-specific implementation lives in termios_linux.go; tests
// substitute a func returning a MockPort.
type OpenFunc func(name string, baud int) (interfaces.Port, error)

// Endpoint is a serial port driven through the reactor: one pending read,
// one pending write, and a FIFO write queue under writeMu.
type Endpoint struct {
	reactor *reactor.Reactor
	log     interfaces.Logger
	obs     interfaces.Observer
	open    OpenFunc

	mu          sync.Mutex
	initialized bool
	name        string
	baud        int
	port        interfaces.Port

	writeMu    sync.Mutex
	writeQueue [][]byte

	// OnRead and OnWriteComplete are the overridable hooks §4.B names.
	// Both default to no-ops; control and framer handlers set them.
	OnRead          func(b []byte)
	OnWriteComplete func()
}

// New constructs an unopened Endpoint. Call Initialize to open the port and
// register it with the reactor.
func New(r *reactor.Reactor, log interfaces.Logger, obs interfaces.Observer, open OpenFunc) *Endpoint {
	return &Endpoint{
		reactor:         r,
		log:             log,
		obs:             obs,
		open:            open,
		OnRead:          func([]byte) {},
		OnWriteComplete: func() {},
	}
}

// Key returns the endpoint's stable completion key: its own address.
func (e *Endpoint) Key() uintptr {
	return reactor.KeyFromPointer(unsafe.Pointer(e))
}

// Initialize opens the named port at baud and registers it with the
// reactor. Idempotent: a second call returns success and logs a warning
// without reopening the port.
func (e *Endpoint) Initialize(name string, baud int) error {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		e.log.Warnf("serial: endpoint already initialized for %s, ignoring re-initialize of %s", e.name, name)
		return nil
	}
	e.mu.Unlock()

	normalized := normalizePortName(name)
	port, err := e.open(normalized, baud)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.name = normalized
	e.baud = baud
	e.port = port
	e.initialized = true
	e.mu.Unlock()

	return e.reactor.Register(e)
}

// Name returns the normalized port name, empty until Initialize succeeds.
func (e *Endpoint) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// Close releases the underlying port.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	port := e.port
	e.mu.Unlock()
	if port == nil {
		return nil
	}
	return port.Close()
}

// OnRegister arms the first read. Called once by reactor.Register.
func (e *Endpoint) OnRegister() {
	e.armRead()
}

// AsyncWrite enqueues a copy of b. If the queue was empty, the write starts
// immediately; otherwise a later write completion drains the next entry.
func (e *Endpoint) AsyncWrite(b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)

	e.writeMu.Lock()
	wasEmpty := len(e.writeQueue) == 0
	e.writeQueue = append(e.writeQueue, cp)
	e.writeMu.Unlock()

	if wasEmpty {
		e.writeNext()
	}
}

// armRead issues the single pending read for this endpoint.
func (e *Endpoint) armRead() {
	e.mu.Lock()
	port := e.port
	name := e.name
	e.mu.Unlock()

	n := constants.ReadBufferSize
	buf := make([]byte, n)

	go func() {
		read, err := port.Read(buf)
		if e.obs != nil && read > 0 {
			e.obs.ObserveBytesRead(name, read)
		}
		e.reactor.Post(reactor.Completion{
			Key:              e.Key(),
			BytesTransferred: read,
			Tag:              reactor.TagRead,
			Err:              err,
			Data:             buf[:max(0, read)],
		})
	}()
}

// writeNext issues an overlapped write of the write queue's head buffer.
func (e *Endpoint) writeNext() {
	e.writeMu.Lock()
	if len(e.writeQueue) == 0 {
		e.writeMu.Unlock()
		return
	}
	head := e.writeQueue[0]
	e.writeMu.Unlock()

	e.mu.Lock()
	port := e.port
	name := e.name
	e.mu.Unlock()

	go func() {
		n, err := port.Write(head)
		if e.obs != nil && n > 0 {
			e.obs.ObserveBytesWritten(name, n)
		}
		e.reactor.Post(reactor.Completion{
			Key:              e.Key(),
			BytesTransferred: n,
			Tag:              reactor.TagWrite,
			Err:              err,
		})
	}()
}

// OnIOComplete dispatches a read or write completion, per the reactor's
// Endpoint contract.
func (e *Endpoint) OnIOComplete(c reactor.Completion) {
	switch c.Tag {
	case reactor.TagRead:
		if c.Err != nil {
			e.log.Errorf("serial: read error on %s: %v", e.Name(), c.Err)
		}
		if c.BytesTransferred > 0 {
			e.OnRead(c.Data)
		}
		e.armRead()
	case reactor.TagWrite:
		if c.Err != nil {
			e.log.Errorf("serial: write error on %s: %v", e.Name(), c.Err)
		}
		e.OnWriteComplete()

		e.writeMu.Lock()
		if len(e.writeQueue) > 0 {
			e.writeQueue = e.writeQueue[1:]
		}
		hasMore := len(e.writeQueue) > 0
		e.writeMu.Unlock()

		if hasMore {
			e.writeNext()
		}
	default:
		e.log.Warnf("serial: unknown completion tag %v on %s", c.Tag, e.Name())
	}
}
