package rpcloop

import (
	"github.com/kornstar11/lapin-go/channel"
	"github.com/kornstar11/lapin-go/connection"
	"github.com/kornstar11/lapin-go/reactor"
)

// Handle is the cloneable object every non-I/O-loop goroutine holds: a
// command-queue sender plus the socket-state handle to wake the loop
// promptly, per spec.md §9's cyclic-ownership note. It carries no
// reference to the owned Connection/Channel state, so copying a Handle
// is always safe and cheap.
type Handle struct {
	cmds chan Command
	wake *reactor.Handle
}

// Send enqueues cmd and wakes the I/O loop. Never blocks indefinitely on
// a healthy loop; the queue is sized generously in NewLoop and the loop
// drains it to emptiness every iteration (spec.md §4.5).
func (h Handle) Send(cmd Command) {
	h.cmds <- cmd
	h.wake.Wake()
}

// Loop is the single consumer of the command queue. It is owned
// exclusively by the ioloop package; no other goroutine touches conn or
// channels directly.
type Loop struct {
	cmds     chan Command
	conn     *connection.Connection
	channels *channel.Table
}

// NewLoop builds a Loop and its matching Handle, bound to wake.
func NewLoop(bufSize int, conn *connection.Connection, channels *channel.Table, wake *reactor.Handle) (*Loop, Handle) {
	cmds := make(chan Command, bufSize)
	return &Loop{cmds: cmds, conn: conn, channels: channels}, Handle{cmds: cmds, wake: wake}
}

// Drain processes every currently queued command to completion, per
// spec.md §4.6 step 4 ("drain the internal RPC queue"). Safe to call
// repeatedly; returns immediately once the queue reads empty.
func (l *Loop) Drain() {
	for {
		select {
		case cmd := <-l.cmds:
			l.apply(cmd)
		default:
			return
		}
	}
}

func (l *Loop) apply(cmd Command) {
	switch c := cmd.(type) {
	case BasicAck:
		l.withChannel(c.Channel, func(ch *channel.Channel) {
			l.conn.SendContent(ch.Ack(c.Tag, c.Multiple))
		})
	case BasicNack:
		l.withChannel(c.Channel, func(ch *channel.Channel) {
			l.conn.SendContent(ch.Nack(c.Tag, c.Multiple, c.Requeue))
		})
	case BasicReject:
		l.withChannel(c.Channel, func(ch *channel.Channel) {
			l.conn.SendContent(ch.Reject(c.Tag, c.Requeue))
		})
	case CancelConsumer:
		l.withChannel(c.Channel, func(ch *channel.Channel) {
			_, frame := ch.CancelConsumer(c.ConsumerTag)
			l.conn.SendControl(frame)
		})
	case CloseChannel:
		l.withChannel(c.Channel, func(ch *channel.Channel) {
			frame := ch.InitiateClose(c.Code, c.Text, 0, 0)
			l.conn.SendControl(frame)
		})
	case CloseConnection:
		l.conn.InitiateClose(c.Code, c.Text, c.ClassID, c.MethodID)
		l.channels.FailAll(l.conn.Err())
	case RemoveChannel:
		if ch, ok := l.channels.Get(c.Channel); ok {
			ch.Fail(c.Err)
		}
		l.channels.Remove(c.Channel)
	case SetConnectionClosing:
		// state already moved to Closing by the frame handler; nothing
		// further to do here beyond documenting the transition point.
	case SetConnectionClosed:
		l.conn.MarkClosed(c.Err)
		l.channels.FailAll(c.Err)
	case SetConnectionError:
		l.conn.MarkError(c.Err)
		l.channels.FailAll(c.Err)
	case RunOnLoop:
		c.Fn(l.conn, l.channels)
	}
}

func (l *Loop) withChannel(id uint16, fn func(*channel.Channel)) {
	if ch, ok := l.channels.Get(id); ok {
		fn(ch)
	}
}
