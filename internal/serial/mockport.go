package serial

import (
	"bytes"
	"io"
	"sync"
)

// MockPort is an in-memory interfaces.Port for tests: reads come from a
// feed buffer callers append to with Feed, writes accumulate in Written.
// Grounded on the teacher's testing.go MockBackend: a call-counting fake
// satisfying the same interface the production type implements.
type MockPort struct {
	mu      sync.Mutex
	feed    bytes.Buffer
	readErr error
	cond    *sync.Cond
	closed  bool

	Written   bytes.Buffer
	WriteErr  error
	ReadCalls int
}

// NewMockPort constructs an empty MockPort.
func NewMockPort() *MockPort {
	p := &MockPort{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Feed appends bytes a subsequent Read will observe, waking any blocked
// reader.
func (p *MockPort) Feed(b []byte) {
	p.mu.Lock()
	p.feed.Write(b)
	p.cond.Broadcast()
	p.mu.Unlock()
}

// SetReadErr makes the next Read (after the feed buffer drains) return err.
func (p *MockPort) SetReadErr(err error) {
	p.mu.Lock()
	p.readErr = err
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Read blocks until Feed, SetReadErr, or Close is called with nothing yet
// delivered, mirroring a blocking character-device read.
func (p *MockPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ReadCalls++

	for p.feed.Len() == 0 && p.readErr == nil && !p.closed {
		p.cond.Wait()
	}
	if p.feed.Len() > 0 {
		return p.feed.Read(b)
	}
	if p.closed {
		return 0, io.EOF
	}
	err := p.readErr
	p.readErr = nil
	return 0, err
}

func (p *MockPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.WriteErr != nil {
		return 0, p.WriteErr
	}
	return p.Written.Write(b)
}

func (p *MockPort) Close() error {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	return nil
}

func (p *MockPort) Fd() int { return -1 }
