package mmwave

import (
	"errors"
	"fmt"
	"syscall"
)

// Kind is a bridge error category, per the error-handling design: not a
// Go error type hierarchy, just a closed set of tags callers can switch on.
type Kind string

const (
	KindIoOpenFailed          Kind = "IoOpenFailed"
	KindIoConfigureFailed     Kind = "IoConfigureFailed"
	KindIoReadFailed          Kind = "IoReadFailed"
	KindIoWriteFailed         Kind = "IoWriteFailed"
	KindCompletionQueueFailed Kind = "CompletionQueueFailed"
	KindRegistrationFailed    Kind = "RegistrationFailed"
	KindFrameResyncLost       Kind = "FrameResyncLost"
	KindUnknownTlv            Kind = "UnknownTlv"
	KindOther                 Kind = "Other"
)

// Error is the bridge's structured error type: an operation, the port it
// happened on, a Kind, the originating errno (if any), and a message.
type Error struct {
	Op    string
	Port  string
	Kind  Kind
	Errno syscall.Errno
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Port != "" {
		parts = append(parts, fmt.Sprintf("port=%s", e.Port))
	}
	if e.Errno != 0 {
		parts = append(parts, fmt.Sprintf("errno=%d", e.Errno))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("mmwave: %s", msg)
	}
	return fmt.Sprintf("mmwave: %s (%s)", msg, parts[0])
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Kind == te.Kind
	}
	return false
}

// NewError builds an Error with no port or errno context.
func NewError(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, Msg: msg}
}

// NewPortError builds an Error scoped to a named serial port.
func NewPortError(op, port string, kind Kind, msg string) *Error {
	return &Error{Op: op, Port: port, Kind: kind, Msg: msg}
}

// WrapErrno wraps a syscall errno observed on a named port, mapping it to
// the Kind the caller's operation maps to (IoOpenFailed, IoReadFailed, ...).
func WrapErrno(op, port string, kind Kind, errno syscall.Errno) *Error {
	return &Error{Op: op, Port: port, Kind: kind, Errno: errno, Msg: errno.Error(), Inner: errno}
}

// Wrap wraps an arbitrary error under a given operation and Kind. Wrapping
// a nil error returns nil, so callers can write `return mmwave.Wrap(...)`
// unconditionally after a fallible call.
func Wrap(op string, kind Kind, inner error) *Error {
	if inner == nil {
		return nil
	}
	if me, ok := inner.(*Error); ok {
		return &Error{Op: op, Port: me.Port, Kind: kind, Errno: me.Errno, Msg: me.Msg, Inner: me}
	}
	if errno, ok := inner.(syscall.Errno); ok {
		return &Error{Op: op, Kind: kind, Errno: errno, Msg: errno.Error(), Inner: inner}
	}
	return &Error{Op: op, Kind: kind, Msg: inner.Error(), Inner: inner}
}

// IsKind reports whether err is, or wraps, an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind == kind
	}
	return false
}
