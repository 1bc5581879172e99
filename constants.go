package mmwave

import "github.com/llhlol/mmwave-bridge/internal/constants"

// Re-exported wire constants for public API consumers.
const (
	ControlBaudRate = constants.ControlBaudRate
	DataBaudRate    = constants.DataBaudRate
	ReadBufferSize  = constants.ReadBufferSize
	FrameHeaderSize = constants.FrameHeaderSize
	TLVHeaderSize   = constants.TLVHeaderSize
)
