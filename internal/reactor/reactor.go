// Package reactor implements the bridge's I/O reactor: a completion queue
// and single dispatch loop, grounded on the teacher's io_uring submission/
// completion model but re-expressed for blocking character-device I/O.
// There is no io_uring-equivalent primitive for serial ports, so
// "submission" here is a goroutine performing the blocking read or write
// and "completion" is that goroutine posting a Completion onto a buffered
// channel that a single goroutine drains and dispatches in Run.
package reactor

import (
	"sync"
	"unsafe"

	"github.com/llhlol/mmwave-bridge/internal/interfaces"
)

// OpTag identifies which half of an endpoint's duplex a Completion belongs
// to, mirroring the read_tag/write_tag distinction on_io_complete switches
// on.
type OpTag int

const (
	TagRead OpTag = iota
	TagWrite
)

func (t OpTag) String() string {
	if t == TagWrite {
		return "write"
	}
	return "read"
}

// sentinelKey is the reserved completion key Quit posts. A registered
// endpoint's key is the address of its concrete value, which on a 64-bit
// platform is never the all-ones value — satisfying the completion-key
// uniqueness invariant without a dedicated out-of-band signal.
const sentinelKey = ^uintptr(0)

// Endpoint is the interface the reactor dispatches completions to. A
// concrete endpoint's Key must be stable for its lifetime; internal/serial
// derives it from the endpoint's own pointer.
type Endpoint interface {
	Key() uintptr
	OnRegister()
	OnIOComplete(c Completion)
}

// Completion is one entry in the reactor's completion queue. Data carries
// the bytes a read completion transferred; it is unused for writes.
type Completion struct {
	Key              uintptr
	BytesTransferred int
	Tag              OpTag
	Err              error
	Data             []byte
}

// Reactor is the completion queue and single dispatcher. Registration and
// lookup are protected by mu; the dispatch loop itself runs on whatever
// goroutine calls Run, keeping per-endpoint completions ordered as the
// channel delivers them.
type Reactor struct {
	mu         sync.Mutex
	registered map[uintptr]Endpoint
	cq         chan Completion
	log        interfaces.Logger
}

// New creates an empty reactor. log may be nil, in which case unroutable
// completions are silently dropped instead of logged.
func New(log interfaces.Logger) *Reactor {
	return &Reactor{
		registered: make(map[uintptr]Endpoint),
		cq:         make(chan Completion, 64),
		log:        log,
	}
}

// KeyFromPointer computes a completion key from an arbitrary pointer. Used
// by endpoint constructors to implement Key() uintptr in terms of their own
// receiver address.
func KeyFromPointer(p unsafe.Pointer) uintptr {
	return uintptr(p)
}

// Register associates an endpoint with the completion queue under its key
// and invokes OnRegister once. Re-registering the same key replaces the
// prior registration, mirroring initialize's idempotent-with-warning
// contract one layer up in internal/serial.
func (r *Reactor) Register(e Endpoint) error {
	key := e.Key()
	if key == sentinelKey {
		return &registrationError{msg: "endpoint key collides with the reserved sentinel"}
	}

	r.mu.Lock()
	r.registered[key] = e
	r.mu.Unlock()

	e.OnRegister()
	return nil
}

// Post submits a completion to the queue. Endpoint reader/writer goroutines
// call this once their blocking syscall returns.
func (r *Reactor) Post(c Completion) {
	r.cq <- c
}

// Run dequeues completions and dispatches each to its registered endpoint
// until Quit is observed. It returns when the sentinel completion is seen.
func (r *Reactor) Run() {
	for c := range r.cq {
		if c.Key == sentinelKey {
			return
		}

		r.mu.Lock()
		ep, ok := r.registered[c.Key]
		r.mu.Unlock()

		if !ok {
			if r.log != nil {
				r.log.Warnf("reactor: completion for unregistered key %d, tag=%s", c.Key, c.Tag)
			}
			continue
		}
		ep.OnIOComplete(c)
	}
}

// Quit posts the in-band sentinel completion. Run observes it and returns.
// Each call posts one more sentinel onto the queue; the queue is never
// closed, so a sentinel with no Run left to drain it stays buffered, and
// Quit blocks once the buffer is full.
func (r *Reactor) Quit() {
	r.cq <- Completion{Key: sentinelKey}
}

type registrationError struct{ msg string }

func (e *registrationError) Error() string { return e.msg }
