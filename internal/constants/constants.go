// Package constants holds wire-protocol and endpoint sizing constants shared
// across the bridge's packages.
package constants

// Serial line parameters (spec.md §6).
const (
	ControlBaudRate = 115200
	DataBaudRate    = 921600
)

// ReadBufferSize is the per-endpoint read buffer, reused across reads.
const ReadBufferSize = 4096

// FrameHeaderSize is the on-wire size of the frame header, magic inclusive:
// magic[8] + 7 u32 fields (version, packetLength, platform, frameNumber,
// time, detectedObjectCount, tlvCount) = 36 bytes. spec.md's prose labels
// this "32 bytes" while its own field list sums to 36; the field list is
// authoritative here and matches the reference implementation's HeaderSize.
const FrameHeaderSize = 36

// TLVHeaderSize is the on-wire size of a TLV's type+length prefix.
const TLVHeaderSize = 8

// Tracked3DTargetSize is the on-wire size of one TargetList record: trackID
// + position{x,y,z} + velocity{x,y,z} + acceleration{x,y,z} + a row-major
// 3x3 errorCovariance + gatingFunctionGain + confidenceLevel, all f32 —
// 21 fields x 4 bytes = 84 bytes. spec.md's prose labels this "112 bytes"
// while its own field list sums to 84; as with FrameHeaderSize, the field
// list is authoritative.
const Tracked3DTargetSize = 84

// Magic is the 8-byte frame marker, little-endian on the wire:
// four u16 values 0x0102, 0x0304, 0x0506, 0x0708.
var Magic = [8]byte{0x02, 0x01, 0x04, 0x03, 0x06, 0x05, 0x08, 0x07}
