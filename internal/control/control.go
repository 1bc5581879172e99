// Package control implements the control-port handler: a serial endpoint
// wired to the radar's CLI UART that echoes everything it reads to the
// operator's standard output, per §4.D.
package control

import (
	"io"

	"github.com/llhlol/mmwave-bridge/internal/constants"
	"github.com/llhlol/mmwave-bridge/internal/interfaces"
	"github.com/llhlol/mmwave-bridge/internal/reactor"
	"github.com/llhlol/mmwave-bridge/internal/serial"
)

// Handler wraps a serial.Endpoint, writing every received byte verbatim to
// an output writer (standard output in production, a buffer in tests).
type Handler struct {
	Endpoint *serial.Endpoint
	out      io.Writer
	log      interfaces.Logger
}

// New builds a control-port handler and wires its OnRead hook. Call
// Endpoint.Initialize to open the port.
func New(r *reactor.Reactor, log interfaces.Logger, obs interfaces.Observer, open serial.OpenFunc, out io.Writer) *Handler {
	h := &Handler{out: out, log: log}
	h.Endpoint = serial.New(r, log, obs, open)
	h.Endpoint.OnRead = h.onRead
	return h
}

// Open initializes the underlying endpoint at the control baud rate.
func (h *Handler) Open(portName string) error {
	return h.Endpoint.Initialize(portName, constants.ControlBaudRate)
}

// Write enqueues bytes to be sent to the radar's CLI port.
func (h *Handler) Write(b []byte) {
	h.Endpoint.AsyncWrite(b)
}

func (h *Handler) onRead(b []byte) {
	if _, err := h.out.Write(b); err != nil {
		h.log.Errorf("control: failed writing to operator output: %v", err)
	}
}
