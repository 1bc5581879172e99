//go:build linux

package serial

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/llhlol/mmwave-bridge/internal/constants"
	"github.com/llhlol/mmwave-bridge/internal/interfaces"
)

// osPort wraps an open serial-port file descriptor. Grounded on
// Daedaluz-goserial's port_linux.go Port type, re-expressed against
// golang.org/x/sys/unix termios ioctls instead of that repo's own
// goioctl binding, which this module does not depend on.
type osPort struct {
	fd int
}

// OpenPort opens and configures name at baud: 8-N-1, binary, RTS/DTR
// asserted, no flow control, per §4.B. Satisfies OpenFunc.
func OpenPort(name string, baud int) (interfaces.Port, error) {
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}

	if err := configure(fd, baud); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	// Clear O_NONBLOCK: it's only needed transiently so Open doesn't block
	// waiting for DCD on some line disciplines; reads should block normally
	// once configured.
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err == nil {
		_, _ = unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags&^unix.O_NONBLOCK)
	}

	if err := purgeQueues(fd); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	return &osPort{fd: fd}, nil
}

func baudBits(baud int) uint32 {
	switch baud {
	case constants.ControlBaudRate:
		return unix.B115200
	case constants.DataBaudRate:
		return unix.B921600
	default:
		return unix.B115200
	}
}

func configure(fd int, baud int) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	// Raw mode: no line editing, no signal generation, no translation —
	// 8 bits pass through unmodified in both directions.
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN

	// 8-N-1: eight data bits, no parity, one stop bit (CSTOPB unset).
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB
	t.Cflag |= unix.CS8 | unix.CLOCAL | unix.CREAD

	t.Cflag &^= unix.CBAUD | unix.CBAUDEX
	bits := baudBits(baud)
	t.Cflag |= bits
	t.Ispeed = uint32(baud)
	t.Ospeed = uint32(baud)

	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return err
	}

	return assertModemLines(fd)
}

// assertModemLines raises RTS and DTR via TIOCMBIS, whose third ioctl
// argument is a pointer to the bitmask to set — unlike TCFLSH below, which
// takes the value directly.
func assertModemLines(fd int) error {
	bits := int32(unix.TIOCM_RTS | unix.TIOCM_DTR)
	return ioctlPtr(fd, unix.TIOCMBIS, unsafe.Pointer(&bits))
}

func purgeQueues(fd int) error {
	return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH)
}

func ioctlPtr(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (p *osPort) Read(b []byte) (int, error) {
	return unix.Read(p.fd, b)
}

func (p *osPort) Write(b []byte) (int, error) {
	return unix.Write(p.fd, b)
}

func (p *osPort) Close() error {
	return unix.Close(p.fd)
}

func (p *osPort) Fd() int {
	return p.fd
}
