package decoder

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/llhlol/mmwave-bridge/internal/constants"
)

// tlvTypeNames is the fixed type-code to name mapping. A code absent from
// this map is rendered with its numeric value as the name, per the unknown
// TLV tolerance policy.
var tlvTypeNames = map[uint32]string{
	1:    "DetectedPoints",
	2:    "RangeProfile",
	3:    "NoiseFloorProfile",
	4:    "AzimuthStaticHeatmap",
	5:    "RangeDopplerHeatmap",
	6:    "Statistics",
	7:    "DetectedPointsSideInfo",
	8:    "AzimuthElevationStaticHeatmap",
	9:    "TemperatureStatistics",
	1000: "SphericalCoordinates",
	1010: "TargetList",
	1011: "TargetIndex",
	1020: "SphericalCompressedPointCloud",
	1021: "PresenceDetection",
	1030: "OccupancyStateMachineOutput",
}

func tlvTypeName(t uint32) string {
	if name, ok := tlvTypeNames[t]; ok {
		return name
	}
	return strconv.FormatUint(uint64(t), 10)
}

// payloadRenderer renders a TLV's payload bytes as JSON into b. Returning
// an error drops the whole frame (an overrun or malformed payload); a
// renderer for a type with no documented payload layout is simply absent
// from payloadRenderers, and the TLV is emitted with no "Data" field.
type payloadRenderer func(b *strings.Builder, payload []byte) error

var payloadRenderers = map[uint32]payloadRenderer{
	1:    renderDetectedPoints,
	2:    renderRangeProfile,
	6:    renderStatistics,
	7:    renderDetectedPointsSideInfo,
	9:    renderTemperatureStatistics,
	1000: renderSphericalCoordinates,
	1010: renderTargetList,
	1011: renderTargetIndex,
	1020: renderSphericalCompressedPointCloud,
}

// walkTLVs iterates the tlvCount TLV records starting at frame[offset],
// rendering each into b as a JSON array element. Returns the error for an
// overrun so the caller can drop the frame per spec.md §7.
func walkTLVs(b *strings.Builder, frame []byte, offset int, tlvCount uint32) error {
	b.WriteByte('[')
	for i := uint32(0); i < tlvCount; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		if offset+constants.TLVHeaderSize > len(frame) {
			return fmt.Errorf("decoder: TLV header at offset %d overruns frame of %d bytes", offset, len(frame))
		}
		tlvType := binary.LittleEndian.Uint32(frame[offset : offset+4])
		tlvLength := binary.LittleEndian.Uint32(frame[offset+4 : offset+8])
		offset += constants.TLVHeaderSize

		end := offset + int(tlvLength)
		if tlvLength > uint32(len(frame)) || end > len(frame) {
			return fmt.Errorf("decoder: TLV type %d declares length %d, overruns frame of %d bytes", tlvType, tlvLength, len(frame))
		}
		payload := frame[offset:end]

		fmt.Fprintf(b, `{"Type":"%s"`, tlvTypeName(tlvType))
		if renderer, ok := payloadRenderers[tlvType]; ok {
			b.WriteString(`,"Data":`)
			if err := renderer(b, payload); err != nil {
				return err
			}
		}
		b.WriteByte('}')

		offset = end
	}
	b.WriteByte(']')
	return nil
}
