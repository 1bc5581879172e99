package decoder

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/llhlol/mmwave-bridge/internal/constants"
)

// buildFrame assembles a complete frame: header + the given TLV records
// (each already containing its own 8-byte type/length prefix). packetLength
// is computed from the actual assembled size, not copied from any
// illustrative byte count, since a decoder only ever sees a slice the
// framer has already validated as exactly packetLength bytes long.
func buildFrame(frameNumber uint32, tlvs ...[]byte) []byte {
	body := make([]byte, 0)
	for _, t := range tlvs {
		body = append(body, t...)
	}

	header := make([]byte, constants.FrameHeaderSize)
	copy(header[0:8], constants.Magic[:])
	binary.LittleEndian.PutUint32(header[8:12], 3) // version
	binary.LittleEndian.PutUint32(header[12:16], uint32(constants.FrameHeaderSize+len(body)))
	binary.LittleEndian.PutUint32(header[16:20], 0x16) // platform
	binary.LittleEndian.PutUint32(header[20:24], frameNumber)
	binary.LittleEndian.PutUint32(header[24:28], 1000) // time
	binary.LittleEndian.PutUint32(header[28:32], 0)    // detectedObjectCount
	binary.LittleEndian.PutUint32(header[32:36], uint32(len(tlvs)))

	return append(header, body...)
}

func buildTLV(tlvType uint32, payload []byte) []byte {
	t := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(t[0:4], tlvType)
	binary.LittleEndian.PutUint32(t[4:8], uint32(len(payload)))
	copy(t[8:], payload)
	return t
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func f32le(f float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return b
}

// TestSingleStatisticsFrame covers scenario S1: a single Statistics TLV.
func TestSingleStatisticsFrame(t *testing.T) {
	var payload []byte
	for _, v := range []uint32{10, 20, 30, 40, 50, 60} {
		payload = append(payload, u32le(v)...)
	}
	frame := buildFrame(1, buildTLV(6, payload))

	got, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !strings.Contains(got, `"Type":"Statistics"`) {
		t.Errorf("missing Statistics type: %s", got)
	}
	want := `"Data":{"interFrameProcessingTime":10,"transmitOutputTime":20,"interFrameProcessingMargin":30,"interChirpProcessingMargin":40,"activeFrameCPULoad":50,"interFrameCPULoad":60}`
	if !strings.Contains(got, want) {
		t.Errorf("Data = %s, want to contain %s", got, want)
	}
}

// TestSplitDeliveryIsIrrelevantToDecoder covers S3's intent at the decoder
// layer: decoding a complete frame gives the same result regardless of how
// the framer assembled it — the decoder only ever sees the whole thing.
func TestSplitDeliveryIsIrrelevantToDecoder(t *testing.T) {
	var payload []byte
	for _, v := range []uint32{10, 20, 30, 40, 50, 60} {
		payload = append(payload, u32le(v)...)
	}
	frame := buildFrame(1, buildTLV(6, payload))

	a, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, err := Decode(append([]byte{}, frame...))
	if err != nil {
		t.Fatalf("Decode (copy): %v", err)
	}
	if a != b {
		t.Errorf("decode not deterministic: %q vs %q", a, b)
	}
}

// TestTwoDetectedPoints covers scenario S4.
func TestTwoDetectedPoints(t *testing.T) {
	var payload []byte
	for _, p := range [4]float32{1.0, 2.0, 3.0, 0.5} {
		payload = append(payload, f32le(p)...)
	}
	for _, p := range [4]float32{-1.0, -2.0, -3.0, -0.5} {
		payload = append(payload, f32le(p)...)
	}
	frame := buildFrame(2, buildTLV(1, payload))

	got, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := `"Data":[{"x":1,"y":2,"z":3,"doppler":0.5},{"x":-1,"y":-2,"z":-3,"doppler":-0.5}]`
	if !strings.Contains(got, want) {
		t.Errorf("Data = %s, want to contain %s", got, want)
	}
}

// TestUnknownTLVType covers scenario S5: an unrecognized type code still
// traverses successfully, rendered with no Data field.
func TestUnknownTLVType(t *testing.T) {
	frame := buildFrame(3, buildTLV(9999, []byte{0x01, 0x02, 0x03, 0x04}))

	got, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !strings.Contains(got, `"Type":"9999"}`) {
		t.Errorf("expected unknown TLV rendered with numeric type and no Data: %s", got)
	}
}

// TestLengthRoundTrip covers invariant 5: for k TLVs, the decoder emits
// exactly k TLV JSON records in order.
func TestLengthRoundTrip(t *testing.T) {
	frame := buildFrame(4,
		buildTLV(6, append(append(append(append(append(
			u32le(1), u32le(2)...), u32le(3)...), u32le(4)...), u32le(5)...), u32le(6)...)),
		buildTLV(1011, []byte{1, 2, 3}),
		buildTLV(9999, []byte{0xff}),
	)

	got, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n := strings.Count(got, `"Type":`); n != 3 {
		t.Errorf("emitted %d TLV records, want 3: %s", n, got)
	}
}

// TestTLVOverrunDropsFrame covers the "length that would overrun the frame
// is fatal" policy from §7.
func TestTLVOverrunDropsFrame(t *testing.T) {
	frame := buildFrame(5, buildTLV(6, []byte{1, 2, 3})) // Statistics, too short
	// Corrupt the declared length to claim far more than is present.
	binary.LittleEndian.PutUint32(frame[constants.FrameHeaderSize+4:constants.FrameHeaderSize+8], 9000)

	if _, err := Decode(frame); err == nil {
		t.Fatal("expected an error for a TLV length overrunning the frame")
	}
}

func TestTargetListRecord(t *testing.T) {
	rec := make([]byte, 0, 84)
	for i := 0; i < 21; i++ {
		rec = append(rec, f32le(float32(i))...)
	}
	frame := buildFrame(6, buildTLV(1010, rec))

	got, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !strings.Contains(got, `"trackID":0`) || !strings.Contains(got, `"confidenceLevel":20`) {
		t.Errorf("TargetList record fields missing or misordered: %s", got)
	}
}

func TestQ9RealScaling(t *testing.T) {
	// integer=3, fraction=16 (16/32 = 0.5), positive -> 3.5
	v := uint16(3<<1 | 16<<10)
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, v)
	frame := buildFrame(7, buildTLV(2, payload))

	got, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !strings.Contains(got, `"Data":["3.5"]`) {
		t.Errorf("Q9Real rendering = %s, want Data containing scaled value 3.5", got)
	}
}
