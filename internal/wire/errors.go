package wire

import "github.com/pkg/errors"

// ErrProtocol marks a malformed frame: unknown frame type, bad terminator,
// truncated field table, or an oversized length field. It is fatal to the
// connection that produced it.
var ErrProtocol = errors.New("amqp: protocol error")
