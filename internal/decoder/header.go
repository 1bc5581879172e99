package decoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/llhlol/mmwave-bridge/internal/constants"
)

// Header is the fixed 36-byte frame header (magic inclusive), decoded
// in place from a frame's leading bytes. Field widths and order match
// the on-wire layout exactly; do not add the commented-out
// subframeNumber field some firmware revisions carry.
type Header struct {
	Version             uint32
	PacketLength        uint32
	Platform            uint32
	FrameNumber         uint32
	Time                uint32
	DetectedObjectCount uint32
	TLVCount            uint32
}

// parseHeader decodes a Header from the first FrameHeaderSize bytes of
// frame, which must already have had its magic verified by the caller.
func parseHeader(frame []byte) (Header, error) {
	if len(frame) < constants.FrameHeaderSize {
		return Header{}, fmt.Errorf("decoder: frame too short for header: %d bytes", len(frame))
	}
	if !bytes.Equal(frame[0:8], constants.Magic[:]) {
		return Header{}, fmt.Errorf("decoder: frame does not begin with the magic word")
	}
	return Header{
		Version:             binary.LittleEndian.Uint32(frame[8:12]),
		PacketLength:        binary.LittleEndian.Uint32(frame[12:16]),
		Platform:            binary.LittleEndian.Uint32(frame[16:20]),
		FrameNumber:         binary.LittleEndian.Uint32(frame[20:24]),
		Time:                binary.LittleEndian.Uint32(frame[24:28]),
		DetectedObjectCount: binary.LittleEndian.Uint32(frame[28:32]),
		TLVCount:            binary.LittleEndian.Uint32(frame[32:36]),
	}, nil
}

func (h Header) writeJSON(b *strings.Builder) {
	fmt.Fprintf(b, `{"version":%d,"packetLength":%d,"platform":%d,"frameNumber":%d,"time":%d,"detectedObjectCount":%d,"tlvCount":%d}`,
		h.Version, h.PacketLength, h.Platform, h.FrameNumber, h.Time, h.DetectedObjectCount, h.TLVCount)
}
