package mmwave

import "testing"

func TestNoOpObserverDiscardsEverything(t *testing.T) {
	var o Observer = NoOpObserver{}

	o.ObserveFrameDecoded(3, 128)
	o.ObserveDecodeError()
	o.ObserveResync()
	o.ObserveBytesRead("/dev/ttyACM0", 64)
	o.ObserveBytesWritten("/dev/ttyACM0", 32)
}
