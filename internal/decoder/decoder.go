// Package decoder implements the frame & TLV decoder (§4.F): given a
// complete frame beginning with a valid magic, it renders the frame header
// and its TLV records into a single JSON object, one line per frame
// (NDJSON), which is an acceptable documented variation on the reference's
// comma-separated record stream.
package decoder

import (
	"github.com/llhlol/mmwave-bridge/internal/constants"
	"github.com/llhlol/mmwave-bridge/internal/interfaces"
)

// Decode renders frame (a contiguous byte slice of exactly packetLength
// bytes, beginning with the magic word) into one newline-terminated JSON
// document. It satisfies internal/framer.Decoder's function signature.
func Decode(frame []byte) (string, error) {
	return DecodeWithObserver(frame, nil)
}

// DecodeWithObserver is Decode plus a metrics observer, wired in by
// cmd/mmwave-bridge so tests can use the bare Decode func without a mock.
func DecodeWithObserver(frame []byte, obs interfaces.Observer) (string, error) {
	header, err := parseHeader(frame)
	if err != nil {
		return "", err
	}

	b := getBuilder()
	defer putBuilder(b)

	b.WriteString(`{"Header":`)
	header.writeJSON(b)
	b.WriteString(`,"TLVs":`)

	if err := walkTLVs(b, frame, constants.FrameHeaderSize, header.TLVCount); err != nil {
		return "", err
	}

	b.WriteString("}\n")

	if obs != nil {
		obs.ObserveFrameDecoded(int(header.TLVCount), len(frame))
	}

	return b.String(), nil
}
