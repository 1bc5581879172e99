package decoder

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func writeFloat32(b *strings.Builder, f float32) {
	b.WriteString(strconv.FormatFloat(float64(f), 'g', 7, 32))
}

func lengthMismatch(tlvName string, length, unit int) error {
	return fmt.Errorf("decoder: %s payload length %d is not a multiple of %d bytes", tlvName, length, unit)
}

// renderDetectedPoints renders TLV type 1: an array of {x,y,z,doppler} f32
// points, 16 bytes each.
func renderDetectedPoints(b *strings.Builder, payload []byte) error {
	const recordSize = 16
	if len(payload)%recordSize != 0 {
		return lengthMismatch("DetectedPoints", len(payload), recordSize)
	}
	b.WriteByte('[')
	for i := 0; i < len(payload); i += recordSize {
		if i > 0 {
			b.WriteByte(',')
		}
		rec := payload[i : i+recordSize]
		b.WriteString(`{"x":`)
		writeFloat32(b, readFloat32(rec[0:4]))
		b.WriteString(`,"y":`)
		writeFloat32(b, readFloat32(rec[4:8]))
		b.WriteString(`,"z":`)
		writeFloat32(b, readFloat32(rec[8:12]))
		b.WriteString(`,"doppler":`)
		writeFloat32(b, readFloat32(rec[12:16]))
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return nil
}

// renderRangeProfile renders TLV type 2: an array of Q9.5 fixed-point
// 16-bit values, one per range bin.
func renderRangeProfile(b *strings.Builder, payload []byte) error {
	const recordSize = 2
	if len(payload)%recordSize != 0 {
		return lengthMismatch("RangeProfile", len(payload), recordSize)
	}
	b.WriteByte('[')
	for i := 0; i < len(payload); i += recordSize {
		if i > 0 {
			b.WriteByte(',')
		}
		decodeQ9Real(binary.LittleEndian.Uint16(payload[i : i+2])).writeJSON(b)
	}
	b.WriteByte(']')
	return nil
}

// renderStatistics renders TLV type 6: six u32 performance counters, in the
// TI mmWave demo's fixed field order.
func renderStatistics(b *strings.Builder, payload []byte) error {
	const wantLen = 24
	if len(payload) != wantLen {
		return fmt.Errorf("decoder: Statistics payload length %d, want %d", len(payload), wantLen)
	}
	fields := [...]string{
		"interFrameProcessingTime",
		"transmitOutputTime",
		"interFrameProcessingMargin",
		"interChirpProcessingMargin",
		"activeFrameCPULoad",
		"interFrameCPULoad",
	}
	b.WriteByte('{')
	for i, name := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, `"%s":%d`, name, binary.LittleEndian.Uint32(payload[i*4:i*4+4]))
	}
	b.WriteByte('}')
	return nil
}

// renderDetectedPointsSideInfo renders TLV type 7: an array of
// {snr, noise} u16 pairs, one per detected point.
func renderDetectedPointsSideInfo(b *strings.Builder, payload []byte) error {
	const recordSize = 4
	if len(payload)%recordSize != 0 {
		return lengthMismatch("DetectedPointsSideInfo", len(payload), recordSize)
	}
	b.WriteByte('[')
	for i := 0; i < len(payload); i += recordSize {
		if i > 0 {
			b.WriteByte(',')
		}
		rec := payload[i : i+recordSize]
		fmt.Fprintf(b, `{"snr":%d,"noise":%d}`,
			binary.LittleEndian.Uint16(rec[0:2]), binary.LittleEndian.Uint16(rec[2:4]))
	}
	b.WriteByte(']')
	return nil
}

// temperatureSensorNames is the fixed order of the ten u16 sensor readings
// in the TemperatureStatistics payload.
var temperatureSensorNames = [10]string{
	"tmpRx0Sens", "tmpRx1Sens", "tmpRx2Sens", "tmpRx3Sens",
	"tmpTx0Sens", "tmpTx1Sens", "tmpTx2Sens",
	"tmpPmSens", "tmpDig0Sens", "tmpDig1Sens",
}

// renderTemperatureStatistics renders TLV type 9:
// {tempReportValid: u32, time: u32, ten u16 sensor readings}.
func renderTemperatureStatistics(b *strings.Builder, payload []byte) error {
	const wantLen = 4 + 4 + 2*10
	if len(payload) != wantLen {
		return fmt.Errorf("decoder: TemperatureStatistics payload length %d, want %d", len(payload), wantLen)
	}
	fmt.Fprintf(b, `{"tempReportValid":%d,"time":%d`,
		binary.LittleEndian.Uint32(payload[0:4]), binary.LittleEndian.Uint32(payload[4:8]))
	for i, name := range temperatureSensorNames {
		off := 8 + i*2
		fmt.Fprintf(b, `,"%s":%d`, name, binary.LittleEndian.Uint16(payload[off:off+2]))
	}
	b.WriteByte('}')
	return nil
}

// renderSphericalCoordinates renders TLV type 1000: an array of
// {range, azimuth, elevation, doppler} f32 records, 16 bytes each.
func renderSphericalCoordinates(b *strings.Builder, payload []byte) error {
	const recordSize = 16
	if len(payload)%recordSize != 0 {
		return lengthMismatch("SphericalCoordinates", len(payload), recordSize)
	}
	b.WriteByte('[')
	for i := 0; i < len(payload); i += recordSize {
		if i > 0 {
			b.WriteByte(',')
		}
		rec := payload[i : i+recordSize]
		b.WriteString(`{"range":`)
		writeFloat32(b, readFloat32(rec[0:4]))
		b.WriteString(`,"azimuth":`)
		writeFloat32(b, readFloat32(rec[4:8]))
		b.WriteString(`,"elevation":`)
		writeFloat32(b, readFloat32(rec[8:12]))
		b.WriteString(`,"doppler":`)
		writeFloat32(b, readFloat32(rec[12:16]))
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return nil
}

// renderTargetList renders TLV type 1010: an array of 84-byte
// Tracked3DTarget records.
func renderTargetList(b *strings.Builder, payload []byte) error {
	const recordSize = 84 // see internal/constants.Tracked3DTargetSize
	if len(payload)%recordSize != 0 {
		return lengthMismatch("TargetList", len(payload), recordSize)
	}
	b.WriteByte('[')
	for i := 0; i < len(payload); i += recordSize {
		if i > 0 {
			b.WriteByte(',')
		}
		renderTracked3DTarget(b, payload[i:i+recordSize])
	}
	b.WriteByte(']')
	return nil
}

func renderTracked3DTarget(b *strings.Builder, rec []byte) {
	f := func(off int) float32 { return readFloat32(rec[off : off+4]) }

	b.WriteString(`{"trackID":`)
	writeFloat32(b, f(0))

	b.WriteString(`,"position":{"x":`)
	writeFloat32(b, f(4))
	b.WriteString(`,"y":`)
	writeFloat32(b, f(8))
	b.WriteString(`,"z":`)
	writeFloat32(b, f(12))
	b.WriteByte('}')

	b.WriteString(`,"velocity":{"x":`)
	writeFloat32(b, f(16))
	b.WriteString(`,"y":`)
	writeFloat32(b, f(20))
	b.WriteString(`,"z":`)
	writeFloat32(b, f(24))
	b.WriteByte('}')

	b.WriteString(`,"acceleration":{"x":`)
	writeFloat32(b, f(28))
	b.WriteString(`,"y":`)
	writeFloat32(b, f(32))
	b.WriteString(`,"z":`)
	writeFloat32(b, f(36))
	b.WriteByte('}')

	b.WriteString(`,"errorCovariance":[`)
	for i := 0; i < 9; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		writeFloat32(b, f(40+i*4))
	}
	b.WriteByte(']')

	b.WriteString(`,"gatingFunctionGain":`)
	writeFloat32(b, f(76))
	b.WriteString(`,"confidenceLevel":`)
	writeFloat32(b, f(80))
	b.WriteByte('}')
}

// renderTargetIndex renders TLV type 1011: an array of u8 track indices.
func renderTargetIndex(b *strings.Builder, payload []byte) error {
	b.WriteByte('[')
	for i, v := range payload {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d", v)
	}
	b.WriteByte(']')
	return nil
}

// renderSphericalCompressedPointCloud renders TLV type 1020: a 5-float
// header (elevationUnit, azimuthUnit, dopplerUnit, rangeUnit, snrUnit)
// followed by an array of compressed points: i8 elev, i8 az, i16 doppler,
// u16 range, u16 snr — 8 bytes per record. spec.md's prose labels this
// "10 bytes each" while its field list sums to 8; as with FrameHeaderSize
// and Tracked3DTargetSize, the field list is authoritative.
func renderSphericalCompressedPointCloud(b *strings.Builder, payload []byte) error {
	const headerSize = 20 // 5 x f32
	const recordSize = 8
	if len(payload) < headerSize || (len(payload)-headerSize)%recordSize != 0 {
		return fmt.Errorf("decoder: SphericalCompressedPointCloud payload length %d is inconsistent with a %d-byte header plus %d-byte records", len(payload), headerSize, recordSize)
	}

	b.WriteString(`{"units":{"elevation":`)
	writeFloat32(b, readFloat32(payload[0:4]))
	b.WriteString(`,"azimuth":`)
	writeFloat32(b, readFloat32(payload[4:8]))
	b.WriteString(`,"doppler":`)
	writeFloat32(b, readFloat32(payload[8:12]))
	b.WriteString(`,"range":`)
	writeFloat32(b, readFloat32(payload[12:16]))
	b.WriteString(`,"snr":`)
	writeFloat32(b, readFloat32(payload[16:20]))
	b.WriteString(`},"points":[`)

	points := payload[headerSize:]
	for i := 0; i < len(points); i += recordSize {
		if i > 0 {
			b.WriteByte(',')
		}
		rec := points[i : i+recordSize]
		fmt.Fprintf(b, `{"elevation":%d,"azimuth":%d,"doppler":%d,"range":%d,"snr":%d}`,
			int8(rec[0]), int8(rec[1]), int16(binary.LittleEndian.Uint16(rec[2:4])),
			binary.LittleEndian.Uint16(rec[4:6]), binary.LittleEndian.Uint16(rec[6:8]))
	}
	b.WriteString(`]}`)
	return nil
}
