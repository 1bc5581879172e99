// Package framer implements the data-port handler: a resynchronizing
// byte-stream framer that accumulates serial reads, locates the magic word,
// and hands complete frames to the decoder, per §4.E.
package framer

import (
	"bytes"
	"encoding/binary"

	"github.com/llhlol/mmwave-bridge/internal/constants"
	"github.com/llhlol/mmwave-bridge/internal/interfaces"
	"github.com/llhlol/mmwave-bridge/internal/reactor"
	"github.com/llhlol/mmwave-bridge/internal/serial"
)

// Decoder renders a complete frame (beginning with a valid magic, length
// packetLength) into the JSON text the sink receives. Implemented by
// internal/decoder.Decode; accepted here as a function value so framer
// doesn't need to import the decoder package's full surface.
type Decoder func(frame []byte) (string, error)

// minPlausiblePacketLength rejects a header whose packetLength couldn't
// possibly hold even an empty TLV list — the resync policy's "less than
// the minimum header size" clause.
const minPlausiblePacketLength = constants.FrameHeaderSize

// maxPlausiblePacketLength bounds packetLength against a read buffer that
// will never grow to contain it within a reasonable arrival budget. The
// data port runs at 921,600 baud; this generously over-bounds any real
// frame the sensor would ever emit.
const maxPlausiblePacketLength = 1 << 20

// Handler wraps a serial.Endpoint, accumulating data-port bytes and
// decoding complete frames as they arrive.
type Handler struct {
	Endpoint *serial.Endpoint

	accumulator []byte
	decode      Decoder
	sink        interfaces.Sink
	log         interfaces.Logger
	obs         interfaces.Observer
}

// New builds a data-port handler and wires its OnRead hook. Call
// Endpoint.Initialize to open the port.
func New(r *reactor.Reactor, log interfaces.Logger, obs interfaces.Observer, open serial.OpenFunc, decode Decoder, sink interfaces.Sink) *Handler {
	h := &Handler{decode: decode, sink: sink, log: log, obs: obs}
	h.Endpoint = serial.New(r, log, obs, open)
	h.Endpoint.OnRead = h.onRead
	return h
}

// Open initializes the underlying endpoint at the data baud rate.
func (h *Handler) Open(portName string) error {
	return h.Endpoint.Initialize(portName, constants.DataBaudRate)
}

// onRead runs the resync-and-decode algorithm. It is only ever invoked
// serially for this endpoint (the reactor re-arms the next read only after
// this call returns), so the accumulator needs no lock of its own.
func (h *Handler) onRead(b []byte) {
	h.accumulator = append(h.accumulator, b...)

	for h.tryDecodeOne() {
	}
}

// tryDecodeOne attempts to locate and decode a single frame at the head of
// the accumulator. It returns true if it made progress (decoded a frame,
// dropped one, or resynced) and the caller should try again in case
// multiple frames arrived in a single read.
func (h *Handler) tryDecodeOne() bool {
	if len(h.accumulator) < constants.FrameHeaderSize {
		return false
	}

	// Scan start positions [0, len-headerSize], not the full buffer: a
	// match whose 8 bytes aren't entirely within that window doesn't give
	// us a complete header yet and is, per the documented scan range,
	// correctly treated the same as "not found" rather than waited upon.
	limit := len(h.accumulator) - constants.FrameHeaderSize + 1
	offset := -1
	for i := 0; i < limit; i++ {
		if bytes.Equal(h.accumulator[i:i+8], constants.Magic[:]) {
			offset = i
			break
		}
	}
	if offset < 0 {
		h.resync("magic not found in accumulator")
		return false
	}
	if offset > 0 {
		h.accumulator = h.accumulator[offset:]
	}

	packetLength := binary.LittleEndian.Uint32(h.accumulator[12:16])

	if packetLength < minPlausiblePacketLength || packetLength > maxPlausiblePacketLength {
		// Implausible length: advance one byte past the current magic and
		// re-scan, per the resync policy's SHOULD clause, rather than
		// waiting indefinitely for a frame that can never complete.
		h.accumulator = h.accumulator[1:]
		if h.obs != nil {
			h.obs.ObserveResync()
		}
		return true
	}

	if uint32(len(h.accumulator)) < packetLength {
		return false
	}

	frame := h.accumulator[:packetLength]
	text, err := h.decode(frame)
	if err != nil {
		// §7: a decode error (e.g. a TLV length overrunning the frame) is
		// fatal for that frame — drop it and clear the accumulator, rather
		// than retaining what follows, since an overrun means packetLength
		// itself can no longer be trusted to bound where the next frame
		// actually starts.
		h.log.Errorf("framer: dropping frame: %v", err)
		if h.obs != nil {
			h.obs.ObserveDecodeError()
		}
		h.accumulator = nil
		return true
	}
	if err := h.sink.Write([]byte(text)); err != nil {
		h.log.Errorf("framer: sink write failed: %v", err)
	}

	// Erase only the consumed frame rather than the whole accumulator: a
	// reference that clears everything drops any bytes already received
	// for the next frame when two frames land in one read. Retaining the
	// remainder lets that next frame decode immediately instead of
	// waiting on further I/O that may never arrive. This applies only to
	// the successful-decode path above; a decode error clears fully, per
	// §7.
	h.accumulator = h.accumulator[packetLength:]
	return true
}

func (h *Handler) resync(reason string) {
	h.log.Warnf("framer: resync: %s", reason)
	h.accumulator = nil
	if h.obs != nil {
		h.obs.ObserveResync()
	}
}
