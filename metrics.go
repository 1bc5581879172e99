package mmwave

import "github.com/llhlol/mmwave-bridge/internal/interfaces"

// Observer is the runtime counter contract the serial endpoints, the framer
// and the decoder depend on. The production implementation is internal/telemetry.Registry, which
// records against Prometheus; NoOpObserver below is for callers that don't
// want metrics wired at all.
type Observer = interfaces.Observer

// NoOpObserver discards every observation.
type NoOpObserver struct{}

func (NoOpObserver) ObserveFrameDecoded(tlvCount int, bytes int) {}
func (NoOpObserver) ObserveDecodeError()                         {}
func (NoOpObserver) ObserveResync()                              {}
func (NoOpObserver) ObserveBytesRead(port string, n int)         {}
func (NoOpObserver) ObserveBytesWritten(port string, n int)      {}

var _ Observer = NoOpObserver{}
