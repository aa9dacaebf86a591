// Package connection implements the AMQP 0-9-1 connection state machine:
// the handshake sequence, negotiated limits, the channel-0 control path,
// and the outbound frame queue that gives control frames priority over
// content traffic. It holds no I/O of its own; the ioloop package drives
// it by feeding decoded frames in and draining encoded frames out.
package connection

import (
	"fmt"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/kornstar11/lapin-go/internal/amqperr"
	"github.com/kornstar11/lapin-go/internal/sasl"
	"github.com/kornstar11/lapin-go/internal/wire"
)

// State is the connection's position in its lifecycle.
type State int

const (
	Initial State = iota
	Connecting
	Connected
	Closing
	Closed
	Error
)

func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// DefaultFrameMax is the frame_max offered before negotiation, per spec.md §3.
const DefaultFrameMax uint32 = 131072

// Credentials produces the SASL response bytes for Connection.StartOk.
// PlainCredentials and *sasl.Responder both satisfy it.
type Credentials interface {
	Mechanism() string
	InitialResponse() string
	// Respond answers a Connection.Secure challenge. Implementations that
	// never expect one (e.g. PLAIN) may return an error unconditionally.
	Respond(challenge string) (string, error)
}

// PlainCredentials implements the PLAIN mechanism: response is
// "\0user\0password", per spec.md §4.3 step 3.
type PlainCredentials struct {
	User     string
	Password string
}

func (c PlainCredentials) Mechanism() string       { return "PLAIN" }
func (c PlainCredentials) InitialResponse() string { return "\x00" + c.User + "\x00" + c.Password }
func (c PlainCredentials) Respond(string) (string, error) {
	return "", errors.New("amqp: PLAIN mechanism does not support a Secure challenge")
}

var _ Credentials = PlainCredentials{}
var _ Credentials = (*sasl.Responder)(nil)

// Config carries the negotiable connection options spec.md §6 enumerates.
type Config struct {
	Credentials      Credentials
	VHost            string
	FrameMax         uint32
	ChannelMax       uint16
	Heartbeat        uint16
	ClientProperties wire.Table
	Logger           logr.Logger
}

// outboundFrame pairs a frame with its priority: channel 0 control frames
// jump ahead of channel body traffic per spec.md §3's outbound queue rule.
type outboundFrame struct {
	frame    wire.Frame
	priority bool
}

// Connection owns the handshake, the negotiated limits, and the outbound
// frame queue. It does not own channel state; Channels is a lookup the
// ioloop/rpcloop packages populate and consult (spec.md §9's "I/O loop
// exclusively owns Channels").
type Connection struct {
	cfg   Config
	log   logr.Logger
	state State

	// stateSnapshot mirrors state for State(), the only accessor callable
	// from outside the I/O loop goroutine that owns this Connection
	// (spec.md §5). Every write to state is paired with a write here.
	stateSnapshot atomic.Int32

	frameMax   uint32
	channelMax uint16
	heartbeat  uint16

	serverProps wire.Table
	mechanisms  string
	locales     string

	outbound []outboundFrame

	// blocked mirrors spec.md §4.4's Connection.Blocked/Unblocked: while
	// true, content-priority frames queue to holdList instead of outbound,
	// the connection-scope analogue of channel.Channel's per-channel
	// flowOK/holdList pause.
	blocked  bool
	holdList []wire.Frame

	closeErr error
}

// New constructs a Connection in state Initial. cfg.FrameMax/ChannelMax
// are the client's preferences prior to negotiation; zero means "no
// preference" for ChannelMax and DefaultFrameMax is substituted for a
// zero FrameMax.
func New(cfg Config) *Connection {
	if cfg.VHost == "" {
		cfg.VHost = "/"
	}
	if cfg.FrameMax == 0 {
		cfg.FrameMax = DefaultFrameMax
	}
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = logr.Discard()
	}
	return &Connection{
		cfg:   cfg,
		log:   cfg.Logger.WithName("connection"),
		state: Initial,
	}
}

// State returns the connection's current lifecycle state. Safe to call
// from any goroutine; it is a snapshot, not a synchronization point for
// anything else Connection exposes.
func (c *Connection) State() State { return State(c.stateSnapshot.Load()) }

func (c *Connection) setState(s State) {
	c.state = s
	c.stateSnapshot.Store(int32(s))
}

// FrameMax returns the negotiated frame_max, or the client's offered
// value before Connection.Tune completes negotiation.
func (c *Connection) FrameMax() uint32 {
	if c.frameMax == 0 {
		return c.cfg.FrameMax
	}
	return c.frameMax
}
func (c *Connection) ChannelMax() uint16 { return c.channelMax }
func (c *Connection) Heartbeat() uint16  { return c.heartbeat }
func (c *Connection) Err() error         { return c.closeErr }

// Start begins the handshake: queue the protocol header and move to
// Connecting. Must be called once, before any frame is fed in.
func (c *Connection) Start() {
	c.setState(Connecting)
	c.enqueue(wire.ProtocolHeaderFrame(), true)
}

// enqueue appends a frame to the outbound queue, control frames first. A
// non-priority frame is held instead while the broker has signalled
// Connection.Blocked, per spec.md §4.4; control traffic (including the
// Close/CloseOk that ends a blocked connection) is never held.
func (c *Connection) enqueue(f wire.Frame, priority bool) {
	if c.blocked && !priority {
		c.holdList = append(c.holdList, f)
		return
	}
	c.outbound = append(c.outbound, outboundFrame{frame: f, priority: priority})
}

// drainHoldList releases frames queued while the connection was blocked.
func (c *Connection) drainHoldList() []wire.Frame {
	held := c.holdList
	c.holdList = nil
	return held
}

// DrainOutbound returns and clears queued frames, control frames ahead of
// content frames, preserving relative order within each priority class.
func (c *Connection) DrainOutbound() []wire.Frame {
	if len(c.outbound) == 0 {
		return nil
	}
	control := make([]wire.Frame, 0, len(c.outbound))
	content := make([]wire.Frame, 0, len(c.outbound))
	for _, of := range c.outbound {
		if of.priority {
			control = append(control, of.frame)
		} else {
			content = append(content, of.frame)
		}
	}
	c.outbound = c.outbound[:0]
	return append(control, content...)
}

// SendMethod queues a channel-0 method frame with control priority.
func (c *Connection) SendMethod(args wire.MethodArgs) {
	c.enqueue(wire.Frame{Kind: wire.FrameTypeMethod, Channel: 0, Method: args}, true)
}

// SendControl queues a method frame for any channel with control
// priority, so Channel.Close/Flow/etc. never wait behind queued body
// traffic on other channels.
func (c *Connection) SendControl(f wire.Frame) {
	c.enqueue(f, true)
}

// QueueHeartbeat enqueues a channel-0 Heartbeat frame with control
// priority, per spec.md §4.6 step 5.
func (c *Connection) QueueHeartbeat() {
	c.enqueue(wire.HeartbeatFrame(), true)
}

// SendContent queues a non-channel-0 method/header/body frame with
// content priority, so it never jumps ahead of pending control traffic.
func (c *Connection) SendContent(f wire.Frame) {
	c.enqueue(f, false)
}

// HandleFrame advances the handshake or channel-0 control state machine
// on an inbound channel-0 frame. Frames for channel != 0 are the caller's
// responsibility (routed to the channel table).
func (c *Connection) HandleFrame(f wire.Frame) error {
	if f.IsHeartbeat {
		return nil // liveness only; ioloop resets its deadline timer
	}
	if f.Channel != 0 {
		return errors.Errorf("amqp: connection.HandleFrame given non-zero channel %d", f.Channel)
	}
	switch c.state {
	case Connecting:
		return c.handleHandshakeFrame(f)
	case Connected:
		return c.handleConnectedFrame(f)
	case Closing:
		return c.handleClosingFrame(f)
	default:
		return amqperr.NewProtocolError(fmt.Sprintf("frame received in state %s", c.state), nil, 0, 0)
	}
}

func (c *Connection) handleHandshakeFrame(f wire.Frame) error {
	if f.Method == nil {
		return c.fail(amqperr.NewProtocolError("non-method frame during handshake", nil, 0, 0))
	}
	switch m := f.Method.(type) {
	case *wire.ConnectionStart:
		c.serverProps = m.ServerProperties
		c.mechanisms = m.Mechanisms
		c.locales = m.Locales
		c.SendMethod(&wire.ConnectionStartOk{
			ClientProperties: c.cfg.ClientProperties,
			Mechanism:        c.cfg.Credentials.Mechanism(),
			Response:         c.cfg.Credentials.InitialResponse(),
			Locale:           firstLocale(c.locales),
		})
		return nil
	case *wire.ConnectionSecure:
		resp, err := c.cfg.Credentials.Respond(m.Challenge)
		if err != nil {
			return c.fail(amqperr.NewProtocolError("SASL challenge rejected by credentials callback", err, m.ClassID(), m.MethodID()))
		}
		c.SendMethod(&wire.ConnectionSecureOk{Response: resp})
		return nil
	case *wire.ConnectionTune:
		c.negotiate(m)
		c.SendMethod(&wire.ConnectionTuneOk{ChannelMax: c.channelMax, FrameMax: c.frameMax, Heartbeat: c.heartbeat})
		c.SendMethod(&wire.ConnectionOpen{VirtualHost: c.cfg.VHost})
		return nil
	case *wire.ConnectionOpenOk:
		c.setState(Connected)
		c.log.Info("connection open", "frame_max", c.frameMax, "channel_max", c.channelMax, "heartbeat", c.heartbeat)
		return nil
	case *wire.ConnectionClose:
		return c.fail(amqperr.NewConnectionError(int(m.ReplyCode), m.ReplyText))
	default:
		return c.fail(amqperr.NewProtocolError(fmt.Sprintf("unexpected method during handshake: class=%d method=%d", m.ClassID(), m.MethodID()), nil, m.ClassID(), m.MethodID()))
	}
}

// negotiate applies spec.md §4.3 step 5's rule: min(ours, theirs) when
// both are non-zero, else the non-zero one; heartbeat prefers the
// client's setting when given.
func (c *Connection) negotiate(tune *wire.ConnectionTune) {
	c.channelMax = negotiateMax(c.cfg.ChannelMax, tune.ChannelMax)
	if c.cfg.FrameMax != 0 && tune.FrameMax != 0 {
		c.frameMax = minU32(c.cfg.FrameMax, tune.FrameMax)
	} else if tune.FrameMax != 0 {
		c.frameMax = tune.FrameMax
	} else {
		c.frameMax = c.cfg.FrameMax
	}
	if c.cfg.Heartbeat != 0 {
		c.heartbeat = c.cfg.Heartbeat
	} else {
		c.heartbeat = tune.Heartbeat
	}
}

// negotiateMax implements spec.md §4.3 step 5 for channel_max: min of the
// two values when both are non-zero, else whichever is non-zero.
func negotiateMax(ours, theirs uint16) uint16 {
	if ours != 0 && theirs != 0 {
		if ours < theirs {
			return ours
		}
		return theirs
	}
	if ours != 0 {
		return ours
	}
	return theirs
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func firstLocale(locales string) string {
	for i := 0; i < len(locales); i++ {
		if locales[i] == ' ' {
			return locales[:i]
		}
	}
	if locales == "" {
		return "en_US"
	}
	return locales
}

func (c *Connection) handleConnectedFrame(f wire.Frame) error {
	method := f.Method
	if method == nil {
		return c.fail(amqperr.NewProtocolError("non-method frame on channel 0 outside handshake", nil, 0, 0))
	}
	switch m := method.(type) {
	case *wire.ConnectionClose:
		c.setState(Closing)
		c.SendMethod(&wire.ConnectionCloseOk{})
		c.closeErr = amqperr.NewConnectionError(int(m.ReplyCode), m.ReplyText)
		return c.closeErr
	case *wire.ConnectionBlocked:
		c.log.Info("connection blocked by broker", "reason", m.Reason)
		c.blocked = true
		return nil
	case *wire.ConnectionUnblocked:
		c.log.Info("connection unblocked by broker")
		c.blocked = false
		for _, f := range c.drainHoldList() {
			c.enqueue(f, false)
		}
		return nil
	default:
		return c.fail(amqperr.NewProtocolError(fmt.Sprintf("unexpected channel-0 method while connected: class=%d method=%d", method.ClassID(), method.MethodID()), nil, method.ClassID(), method.MethodID()))
	}
}

func (c *Connection) handleClosingFrame(f wire.Frame) error {
	if _, ok := f.Method.(*wire.ConnectionCloseOk); ok {
		c.setState(Closed)
		return nil
	}
	// Any other frame while closing is ignored: the broker may still be
	// draining its own in-flight traffic.
	return nil
}

// InitiateClose begins a local Connection.Close, per spec.md §4.4's close
// discipline mirrored at connection scope. It records the terminal error
// immediately (rather than waiting for the peer's Close-Ok) so any RPC or
// consumer failed out from here on — by CloseConnection's FailAll, or by
// Err() observed directly — rejects with a real cause, per spec.md
// invariant 4, instead of a nil error indistinguishable from success.
func (c *Connection) InitiateClose(code uint16, text string, classID, methodID uint16) {
	if c.state == Closed || c.state == Error {
		return
	}
	c.setState(Closing)
	c.closeErr = amqperr.NewConnectionError(int(code), text)
	c.SendMethod(&wire.ConnectionClose{ReplyCode: code, ReplyText: text, ClassID_: classID, MethodID_: methodID})
}

// MarkClosed transitions to Closed with a terminal error (nil on a clean
// local close), for the rpcloop's SetConnectionClosed command.
func (c *Connection) MarkClosed(err error) {
	c.setState(Closed)
	c.closeErr = err
}

// fail transitions to Error and records the terminal cause, returning it
// so callers can propagate it to resolver-rejection logic.
func (c *Connection) fail(err error) error {
	if c.state != Closed {
		c.setState(Error)
	}
	c.closeErr = err
	return err
}

// MarkError forces an Error transition from outside the handshake/control
// path, e.g. on a heartbeat timeout or socket failure (rpcloop's
// SetConnectionError command).
func (c *Connection) MarkError(err error) error { return c.fail(err) }
