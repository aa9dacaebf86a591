// Package amqperr implements the error taxonomy of spec.md §7: protocol and
// I/O faults are fatal to a connection, channel faults are fatal to one
// channel, and programmer errors surface synchronously. Each type that
// carries a cause wraps it with github.com/pkg/errors.WithStack for a
// captured stack, matching how keda's
// pkg/status package annotates errors crossing a goroutine boundary.
package amqperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ProtocolError is a malformed frame or unexpected method: fatal to the
// connection. ClassID/MethodID name the offending frame's class/method
// when known (zero when the violation isn't tied to a specific method,
// e.g. a frame-decode failure), so the Connection.Close/Channel.Close
// this escalates into can cite them per spec.md §8 scenario 3.
type ProtocolError struct {
	Reason   string
	ClassID  uint16
	MethodID uint16
	cause    error
}

func NewProtocolError(reason string, cause error, classID, methodID uint16) *ProtocolError {
	return &ProtocolError{Reason: reason, ClassID: classID, MethodID: methodID, cause: errors.WithStack(cause)}
}

func (e *ProtocolError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("amqp: protocol error: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("amqp: protocol error: %s", e.Reason)
}
func (e *ProtocolError) Unwrap() error { return e.cause }

// SerializationError is an encode-side failure on a user-supplied field
// (a property value of the wrong type, a short string over 255 bytes).
// The I/O loop treats a failure to encode an outbound frame as fatal to
// the connection.
type SerializationError struct{ cause error }

func NewSerializationError(cause error) *SerializationError {
	return &SerializationError{cause: errors.WithStack(cause)}
}
func (e *SerializationError) Error() string { return fmt.Sprintf("amqp: serialization error: %v", e.cause) }
func (e *SerializationError) Unwrap() error { return e.cause }

// IOError wraps a socket failure, EOF, or TLS error: fatal to the
// connection.
type IOError struct{ cause error }

func NewIOError(cause error) *IOError { return &IOError{cause: errors.WithStack(cause)} }
func (e *IOError) Error() string      { return fmt.Sprintf("amqp: I/O error: %v", e.cause) }
func (e *IOError) Unwrap() error      { return e.cause }

// ChannelError is a remote Channel.Close or a local invariant violation:
// fatal to one channel, other channels are unaffected.
type ChannelError struct {
	Code int
	Text string
}

func NewChannelError(code int, text string) *ChannelError {
	return &ChannelError{Code: code, Text: text}
}
func (e *ChannelError) Error() string {
	return fmt.Sprintf("amqp: channel closed, code=%d: %s", e.Code, e.Text)
}

// ConnectionError is a remote Connection.Close or a heartbeat timeout:
// fatal to the connection.
type ConnectionError struct {
	Code int
	Text string
}

func NewConnectionError(code int, text string) *ConnectionError {
	return &ConnectionError{Code: code, Text: text}
}
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("amqp: connection closed, code=%d: %s", e.Code, e.Text)
}

// ErrInvalidState is returned when a user operation targets a channel or
// connection that is not Open.
var ErrInvalidState = errors.New("amqp: invalid state for this operation")

// ErrNoAvailableChannel is returned when channel-id allocation is
// exhausted.
var ErrNoAvailableChannel = errors.New("amqp: no available channel id")
