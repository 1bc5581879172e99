package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFrameDecoded(t *testing.T) {
	r := New()

	r.ObserveFrameDecoded(4, 256)
	r.ObserveFrameDecoded(2, 128)

	if got := testutil.ToFloat64(r.framesDecoded); got != 2 {
		t.Errorf("framesDecoded = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.tlvsDecoded); got != 6 {
		t.Errorf("tlvsDecoded = %v, want 6", got)
	}
}

func TestObserveDecodeErrorAndResync(t *testing.T) {
	r := New()

	r.ObserveDecodeError()
	r.ObserveDecodeError()
	r.ObserveResync()

	if got := testutil.ToFloat64(r.decodeErrors); got != 2 {
		t.Errorf("decodeErrors = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.resyncs); got != 1 {
		t.Errorf("resyncs = %v, want 1", got)
	}
}

func TestObserveBytesPerPort(t *testing.T) {
	r := New()

	r.ObserveBytesRead("/dev/ttyACM0", 10)
	r.ObserveBytesRead("/dev/ttyACM0", 5)
	r.ObserveBytesRead("/dev/ttyACM1", 100)
	r.ObserveBytesWritten("/dev/ttyACM0", 3)

	if got := testutil.ToFloat64(r.bytesRead.WithLabelValues("/dev/ttyACM0")); got != 15 {
		t.Errorf("bytesRead[ttyACM0] = %v, want 15", got)
	}
	if got := testutil.ToFloat64(r.bytesRead.WithLabelValues("/dev/ttyACM1")); got != 100 {
		t.Errorf("bytesRead[ttyACM1] = %v, want 100", got)
	}
	if got := testutil.ToFloat64(r.bytesWritten.WithLabelValues("/dev/ttyACM0")); got != 3 {
		t.Errorf("bytesWritten[ttyACM0] = %v, want 3", got)
	}
}

func TestNewServerBindsLoopback(t *testing.T) {
	r := New()
	s, err := NewServer(r)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer s.http.Close()

	if s.Addr() == "" {
		t.Error("expected a bound address")
	}
}
