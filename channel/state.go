// Package channel implements the per-channel state machine spec.md §4.4
// describes: allocation, RPC correlation, content-method send/receive
// discipline, the consumer table, and Channel.Flow handling. A Table
// indexes open Channels by id for the ioloop/rpcloop packages.
package channel

import (
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/kornstar11/lapin-go/internal/amqperr"
	"github.com/kornstar11/lapin-go/internal/promise"
	"github.com/kornstar11/lapin-go/internal/wire"
)

// State is the channel's position in its lifecycle, mirroring
// connection.State's shape at channel scope (spec.md §3).
type State int

const (
	Initial State = iota
	Opening
	Open
	SendingContent
	ReceivingContent
	Closing
	Closed
	Error
)

func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case SendingContent:
		return "sending_content"
	case ReceivingContent:
		return "receiving_content"
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

// pendingRPC is one entry in the ordered outstanding-RPC queue spec.md §3
// describes: an expected reply (class,method) pair and the resolver to
// fulfil when it (or a channel/connection error) arrives.
type pendingRPC struct {
	expects  []wire.ReplyKey
	resolver *promise.Resolver[wire.MethodArgs]
}

func expectsMatch(expects []wire.ReplyKey, m wire.MethodArgs) bool {
	for _, e := range expects {
		if e.Matches(m) {
			return true
		}
	}
	return false
}

// assembler accumulates a content-bearing delivery: a Header frame's
// declared body_size followed by zero or more Body fragments, per spec.md
// §9's "bounded accumulator (expected, so_far)".
type assembler struct {
	active    bool
	classID   uint16
	bodySize  uint64
	soFar     []byte
	props     wire.Table
	onDeliver func(props wire.Table, body []byte) error
}

func (a *assembler) reset() { *a = assembler{} }

func (a *assembler) startHeader(classID uint16, bodySize uint64, props wire.Table, onDeliver func(wire.Table, []byte) error) {
	a.active = true
	a.classID = classID
	a.bodySize = bodySize
	a.props = props
	a.soFar = make([]byte, 0, bodySize)
	a.onDeliver = onDeliver
}

// appendBody adds a body fragment, reporting whether the assembly is now
// complete (so_far == expected) and propagating any error the delivery
// callback raised on completion.
func (a *assembler) appendBody(b []byte) (complete bool, err error) {
	a.soFar = append(a.soFar, b...)
	if uint64(len(a.soFar)) >= a.bodySize {
		if a.onDeliver != nil {
			err = a.onDeliver(a.props, a.soFar)
		}
		a.reset()
		return true, err
	}
	return false, nil
}

// Consumer is the client-visible handle for a Basic.Consume subscription:
// Status completes when the consumer is cancelled (locally or by the
// broker), Deliveries receives assembled messages in arrival order.
// spec.md §9 keeps this distinct from the delivery sink itself so a
// caller can observe cancellation without consuming every message.
type Consumer struct {
	Tag        string
	Status     *promise.Resolver[CancelReason]
	Deliveries chan Delivery
	cancelled  bool
}

// CancelReason records why a consumer's Status resolved.
type CancelReason struct {
	ServerInitiated bool
	Err             error
}

// Delivery is one fully assembled Basic.Deliver (method + header + body).
type Delivery struct {
	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
	Properties  wire.Table
	Body        []byte
}

// Channel is one multiplexed logical connection, per spec.md §3.
type Channel struct {
	ID    uint16
	log   logr.Logger
	state State

	// stateSnapshot mirrors state for State(), the only accessor callable
	// from outside the I/O loop goroutine that owns this Channel (spec.md
	// §5). Every write to state is paired with a write here.
	stateSnapshot atomic.Int32

	rpcQueue []*pendingRPC
	incoming assembler
	outgoing struct {
		active   bool
		remaining uint64
	}

	consumers map[string]*Consumer
	flowOK    bool
	holdList  []wire.Frame
	released  []wire.Frame

	pendingGet      *promise.Resolver[*GetResult]
	pendingDeliver  *pendingDelivery
	pendingConsumer *Consumer

	frameMax uint32
}

// GetResult is the outcome of a Basic.Get: either a message (Ok=true) or
// the empty response.
type GetResult struct {
	Ok          bool
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
	MessageCount uint32
	Properties  wire.Table
	Body        []byte
}

// New constructs a Channel in state Initial. frameMax bounds outgoing
// body-frame fragment size (frame_max - 8, per spec.md §4.4).
func New(id uint16, frameMax uint32, log logr.Logger) *Channel {
	return &Channel{
		ID:        id,
		log:       log.WithValues("channel", id),
		state:     Initial,
		consumers: map[string]*Consumer{},
		flowOK:    true,
		frameMax:  frameMax,
	}
}

// State returns the channel's current lifecycle state. Safe to call from
// any goroutine; it is a snapshot, not a synchronization point for
// anything else Channel exposes.
func (ch *Channel) State() State { return State(ch.stateSnapshot.Load()) }

func (ch *Channel) setState(s State) {
	ch.state = s
	ch.stateSnapshot.Store(int32(s))
}

// Open queues Channel.Open and registers the resolver to fulfil on
// Channel.Open-Ok.
func (ch *Channel) Open() (*promise.Resolver[wire.MethodArgs], wire.Frame) {
	ch.setState(Opening)
	args := &wire.ChannelOpen{}
	resolver := promise.New[wire.MethodArgs]()
	ch.rpcQueue = append(ch.rpcQueue, &pendingRPC{
		expects:  wire.ExpectedReply(args.ClassID(), args.MethodID()),
		resolver: resolver,
	})
	return resolver, wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: args}
}

// SendRPC queues an outgoing method expecting a reply, returning the
// resolver to fulfil when it arrives. The acceptable reply (class,method)
// ids come from wire.ExpectedReply's correlation table, keyed on args'
// own id, per spec.md §4.4's RPC correlation rule. noWait suppresses the
// reply expectation for methods sent with their no-wait bit set, which
// per spec.md never get a synchronous reply.
func (ch *Channel) SendRPC(args wire.MethodArgs, noWait bool) (*promise.Resolver[wire.MethodArgs], wire.Frame) {
	resolver := promise.New[wire.MethodArgs]()
	expects := wire.ExpectedReply(args.ClassID(), args.MethodID())
	if !noWait && len(expects) > 0 {
		ch.rpcQueue = append(ch.rpcQueue, &pendingRPC{expects: expects, resolver: resolver})
	} else {
		resolver.Resolve(nil) // fire-and-forget method, e.g. Basic.Ack, or sent no-wait
	}
	return resolver, wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: args}
}

// HandleMethod routes an inbound method frame for this channel: either it
// completes the head of the RPC queue, or it is a server-pushed
// notification (Basic.Deliver, Basic.Return, Basic.Cancel, Channel.Close,
// Channel.Flow, Basic.GetOk/Empty) handled directly.
func (ch *Channel) HandleMethod(m wire.MethodArgs) error {
	if ch.incoming.active {
		return ch.failProto("UNEXPECTED_FRAME: method received mid-content", m.ClassID(), m.MethodID())
	}
	switch args := m.(type) {
	case *wire.ChannelOpenOk:
		return ch.resolveHead(args)
	case *wire.ChannelClose:
		return ch.handleRemoteClose(args)
	case *wire.ChannelCloseOk:
		ch.setState(Closed)
		return ch.resolveHead(args)
	case *wire.ChannelFlow:
		ch.flowOK = args.Active
		if ch.flowOK {
			ch.released = append(ch.released, ch.drainHoldList()...)
		}
		return nil
	case *wire.ChannelFlowOk:
		return ch.resolveHead(args)
	case *wire.BasicConsumeOk:
		return ch.finishResolveHead(args, func() { ch.bindConsumerTag(args) })
	case *wire.BasicCancelOk:
		tag := args.ConsumerTag
		return ch.finishResolveHead(args, func() { ch.completeConsumer(tag, CancelReason{}) })
	case *wire.BasicCancel:
		ch.completeConsumer(args.ConsumerTag, CancelReason{ServerInitiated: true})
		return nil
	case *wire.BasicDeliver:
		return ch.startDelivery(args)
	case *wire.BasicReturn:
		ch.log.Info("message returned", "reply_code", args.ReplyCode, "reply_text", args.ReplyText)
		ch.pendingDeliver = nil // next Header/Body pair is discarded by dispatchDelivery
		return nil
	case *wire.BasicGetOk:
		return ch.startGet(args)
	case *wire.BasicGetEmpty:
		if ch.pendingGet != nil {
			ch.pendingGet.Resolve(&GetResult{Ok: false})
			ch.pendingGet = nil
		}
		return nil
	case *wire.BasicQosOk, *wire.ExchangeDeclareOk, *wire.ExchangeDeleteOk, *wire.ExchangeBindOk,
		*wire.QueueDeclareOk, *wire.QueueBindOk, *wire.QueueUnbindOk, *wire.QueuePurgeOk, *wire.QueueDeleteOk,
		*wire.TxSelectOk, *wire.TxCommitOk, *wire.TxRollbackOk, *wire.ConfirmSelectOk:
		return ch.resolveHead(args)
	default:
		return ch.failProto("UNEXPECTED_FRAME: unhandled method on channel", m.ClassID(), m.MethodID())
	}
}

func (ch *Channel) resolveHead(m wire.MethodArgs) error {
	return ch.finishResolveHead(m, nil)
}

func (ch *Channel) finishResolveHead(m wire.MethodArgs, after func()) error {
	if len(ch.rpcQueue) == 0 {
		return ch.fail(amqperr.NewChannelError(505, "UNEXPECTED_FRAME: reply with no outstanding RPC"))
	}
	head := ch.rpcQueue[0]
	if !expectsMatch(head.expects, m) {
		return ch.fail(amqperr.NewChannelError(505, "UNEXPECTED_FRAME: reply does not match head of RPC queue"))
	}
	ch.rpcQueue = ch.rpcQueue[1:]
	head.resolver.Resolve(m)
	if ch.state == Opening {
		ch.setState(Open)
	}
	if after != nil {
		after()
	}
	return nil
}

func (ch *Channel) handleRemoteClose(args *wire.ChannelClose) error {
	ch.setState(Closing)
	err := amqperr.NewChannelError(int(args.ReplyCode), args.ReplyText)
	ch.rejectAll(err)
	ch.setState(Closed)
	return nil // Channel.Close-Ok is queued by the caller (ioloop's route), not an error condition
}

// InitiateClose begins a local Channel.Close.
func (ch *Channel) InitiateClose(code uint16, text string, classID, methodID uint16) wire.Frame {
	ch.setState(Closing)
	ch.rejectAll(amqperr.NewChannelError(int(code), text))
	return wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: &wire.ChannelClose{
		ReplyCode: code, ReplyText: text, ClassID_: classID, MethodID_: methodID,
	}}
}

// CloseOkFrame builds the reply to a remote Channel.Close.
func (ch *Channel) CloseOkFrame() wire.Frame {
	return wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: &wire.ChannelCloseOk{}}
}

// Fail force-transitions to Error, rejecting every outstanding RPC and
// consumer, per spec.md invariant 4 ("fulfilled exactly once").
func (ch *Channel) Fail(err error) { ch.fail(err) }

func (ch *Channel) fail(err error) error {
	if ch.state != Closed {
		ch.setState(Error)
	}
	ch.rejectAll(err)
	return err
}

// failProto fails this channel locally and returns a ProtocolError: per
// spec.md §7's taxonomy, an unexpected frame or method (as opposed to a
// remote Channel.Close or an RPC-bookkeeping mismatch) is fatal to the
// whole connection. The ioloop is responsible for escalating a returned
// *amqperr.ProtocolError into a connection-wide Connection.Close, per
// the literal behavior spec.md §8 scenario 3 describes.
func (ch *Channel) failProto(reason string, classID, methodID uint16) error {
	if ch.state != Closed {
		ch.setState(Error)
	}
	err := amqperr.NewProtocolError(reason, nil, classID, methodID)
	ch.rejectAll(err)
	return err
}

func (ch *Channel) rejectAll(err error) {
	for _, p := range ch.rpcQueue {
		p.resolver.Reject(err)
	}
	ch.rpcQueue = nil
	for tag := range ch.consumers {
		ch.completeConsumer(tag, CancelReason{Err: err})
	}
	if ch.pendingGet != nil {
		ch.pendingGet.Reject(err)
		ch.pendingGet = nil
	}
}
