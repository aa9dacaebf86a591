// Package ioloop implements the single pseudo-cooperative driver loop of
// spec.md §4.6: it owns the socket, feeds decoded frames to the
// connection/channel state machines, drains the outbound frame queue and
// the rpcloop command queue, and emits heartbeats. Grounded on keda's
// scale_handler reconciliation loop idiom (ticker + select over a done
// channel), adapted from a polling reconcile loop to an event-driven one.
package ioloop

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/kornstar11/lapin-go/channel"
	"github.com/kornstar11/lapin-go/connection"
	"github.com/kornstar11/lapin-go/internal/amqperr"
	"github.com/kornstar11/lapin-go/internal/metrics"
	"github.com/kornstar11/lapin-go/internal/promise"
	"github.com/kornstar11/lapin-go/internal/wire"
	"github.com/kornstar11/lapin-go/reactor"
	"github.com/kornstar11/lapin-go/rpcloop"
)

// Loop drives one Connection end to end. It is the sole owner of the
// Connection and channel.Table it was built with (spec.md §9).
type Loop struct {
	socket  reactor.Socket
	reactor reactor.Reactor
	slot    reactor.SlotID
	state   *reactor.Handle

	conn     *connection.Connection
	channels *channel.Table
	rpc      *rpcloop.Loop
	handle   rpcloop.Handle

	metrics *metrics.Collector
	log     logr.Logger

	wakeCh chan struct{}
	tickCh chan struct{}

	readBuf     []byte
	lastInbound time.Time

	established *promise.Resolver[error]
}

// New wires a Loop around socket using builder to obtain a Reactor bound
// to executor. conn and channels are driven exclusively by this Loop from
// here on; callers keep only the returned rpcloop.Handle.
func New(socket reactor.Socket, builder reactor.Builder, executor reactor.Executor, conn *connection.Connection, channels *channel.Table, mc *metrics.Collector, log logr.Logger) (*Loop, rpcloop.Handle, error) {
	l := &Loop{
		socket:      socket,
		conn:        conn,
		channels:    channels,
		metrics:     mc,
		log:         log.WithName("ioloop"),
		wakeCh:      make(chan struct{}, 1),
		tickCh:      make(chan struct{}, 1),
		readBuf:     make([]byte, 0, 4096),
		established: promise.New[error](),
	}
	l.state = reactor.NewHandle(l.wake)
	l.reactor = builder.Build(executor)
	slot, err := l.reactor.Register(socket, l.state)
	if err != nil {
		return nil, rpcloop.Handle{}, errors.Wrap(err, "amqp: registering socket with reactor")
	}
	l.slot = slot
	l.rpc, l.handle = rpcloop.NewLoop(64, conn, channels, l.state)
	return l, l.handle, nil
}

func (l *Loop) wake() {
	select {
	case l.wakeCh <- struct{}{}:
	default:
	}
}

func (l *Loop) tick() {
	select {
	case l.tickCh <- struct{}{}:
	default:
	}
	l.wake()
}

// Run drives the handshake and then the steady-state loop until ctx is
// cancelled or a fatal error occurs. It always returns a non-nil error on
// exit other than context cancellation (spec.md §7: every terminal
// transition has a cause).
func (l *Loop) Run(ctx context.Context) (err error) {
	defer l.socket.Close()
	defer func() { l.established.Resolve(err) }()

	l.conn.Start()
	l.reactor.PollRead(l.slot)
	if err = l.drainOutbound(); err != nil {
		return err
	}
	l.reactor.PollWrite(l.slot)

	heartbeatStarted := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wakeCh:
		case <-l.tickCh:
			if err = l.handleHeartbeatTick(); err != nil {
				return err
			}
		}
		if err = l.cycle(); err != nil {
			return err
		}
		if !heartbeatStarted && l.conn.State() == connection.Connected {
			l.StartHeartbeat(ctx)
			heartbeatStarted = true
			l.established.Resolve(nil)
		}
		if l.conn.State() == connection.Closed {
			return l.conn.Err()
		}
	}
}

// WaitConnected blocks until the handshake reaches Connected or the loop
// exits first (ctx cancellation, a handshake-time protocol/I/O error).
func (l *Loop) WaitConnected(ctx context.Context) error {
	select {
	case <-l.established.Done():
		_, err := l.established.Wait()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cycle implements one pass of spec.md §4.6 steps 2-6.
func (l *Loop) cycle() error {
	ev := l.state.Take()
	if ev&reactor.EventReadable != 0 {
		if err := l.readInbound(); err != nil {
			return err
		}
	}
	if err := l.drainOutbound(); err != nil {
		return err
	}
	l.rpc.Drain()
	l.releaseFlowedFrames()
	if err := l.drainOutbound(); err != nil {
		return err
	}
	if ev != 0 {
		l.reactor.PollRead(l.slot)
		l.reactor.PollWrite(l.slot)
	}
	return nil
}

func (l *Loop) releaseFlowedFrames() {
	for _, ch := range l.channels.All() {
		for _, f := range ch.TakeReleased() {
			l.conn.SendContent(f)
		}
	}
}

func (l *Loop) readInbound() error {
	buf := make([]byte, 65536)
	n, err := l.socket.Read(buf)
	if n > 0 {
		l.readBuf = append(l.readBuf, buf[:n]...)
	}
	if err != nil {
		return l.fatal(amqperr.NewIOError(err))
	}
	for {
		res, derr := wire.Decode(l.readBuf, l.conn.FrameMax())
		if derr != nil {
			return l.fatal(amqperr.NewProtocolError("frame decode failed", derr, 0, 0))
		}
		if res.Incomplete {
			return nil
		}
		l.lastInbound = time.Now()
		l.countReceived(res.Frame)
		if err := l.route(res.Frame); err != nil {
			return err
		}
		l.readBuf = l.readBuf[res.Consumed:]
		if l.conn.State() == connection.Closed {
			return nil
		}
	}
}

func (l *Loop) countReceived(f wire.Frame) {
	if l.metrics == nil {
		return
	}
	l.metrics.FramesReceived.WithLabelValues(frameKindLabel(f)).Inc()
}

func (l *Loop) countSent(f wire.Frame) {
	if l.metrics == nil {
		return
	}
	l.metrics.FramesSent.WithLabelValues(frameKindLabel(f)).Inc()
}

// frameMethodIDs extracts the class/method identifying a frame, where
// known, for citing in the Close this frame provokes.
func frameMethodIDs(f wire.Frame) (classID, methodID uint16) {
	switch {
	case f.Kind == wire.FrameTypeMethod && f.Method != nil:
		return f.Method.ClassID(), f.Method.MethodID()
	case f.Kind == wire.FrameTypeHeader:
		return f.ClassID, 0
	default:
		return 0, 0
	}
}

func frameKindLabel(f wire.Frame) string {
	switch {
	case f.IsProtocolHeader:
		return "protocol_header"
	case f.IsHeartbeat:
		return "heartbeat"
	case f.Kind == wire.FrameTypeMethod:
		return "method"
	case f.Kind == wire.FrameTypeHeader:
		return "header"
	default:
		return "body"
	}
}

func (l *Loop) route(f wire.Frame) error {
	if f.IsProtocolHeader {
		return l.fatal(amqperr.NewProtocolError("unexpected protocol header from peer", nil, 0, 0))
	}
	if f.Channel == 0 {
		if err := l.conn.HandleFrame(f); err != nil {
			return l.escalate(err)
		}
		return nil
	}
	ch, ok := l.channels.Get(f.Channel)
	if !ok {
		classID, methodID := frameMethodIDs(f)
		return l.fatal(amqperr.NewProtocolError("frame for unknown channel", nil, classID, methodID))
	}
	var err error
	switch f.Kind {
	case wire.FrameTypeMethod:
		err = ch.HandleMethod(f.Method)
		if _, isClose := f.Method.(*wire.ChannelClose); isClose && err == nil {
			l.conn.SendControl(ch.CloseOkFrame())
			l.channels.Remove(f.Channel)
		}
	case wire.FrameTypeHeader:
		err = ch.HandleHeader(f)
	case wire.FrameTypeBody:
		err = ch.HandleBody(f.Body)
	case wire.FrameTypeHeartbeat:
		// liveness only, already recorded by readInbound
	}
	if err != nil {
		return l.escalate(err)
	}
	return nil
}

// escalate decides, per spec.md §7's error taxonomy, whether err tears
// down only the offending channel or the whole connection.
func (l *Loop) escalate(err error) error {
	if pe, ok := err.(*amqperr.ProtocolError); ok {
		l.conn.InitiateClose(505, "UNEXPECTED_FRAME", pe.ClassID, pe.MethodID)
		l.channels.FailAll(err)
		return l.drainOutbound()
	}
	if ce, ok := err.(*amqperr.ConnectionError); ok {
		// The peer closed the connection: every channel goes with it, and
		// the Close-Ok the connection queued is flushed.
		l.channels.FailAll(ce)
		return l.drainOutbound()
	}
	// ChannelError: the channel already rejected its own RPCs; nothing
	// further propagates to the connection.
	return nil
}

func (l *Loop) fatal(err error) error {
	l.conn.MarkError(err)
	l.channels.FailAll(err)
	return err
}

func (l *Loop) drainOutbound() error {
	for _, f := range l.conn.DrainOutbound() {
		b, err := wire.Encode(f, l.conn.FrameMax())
		if err != nil {
			return l.fatal(amqperr.NewSerializationError(err))
		}
		if _, err := l.socket.Write(b); err != nil {
			return l.fatal(amqperr.NewIOError(err))
		}
		l.countSent(f)
	}
	return nil
}

func (l *Loop) handleHeartbeatTick() error {
	h := l.conn.Heartbeat()
	if h == 0 {
		return nil
	}
	if !l.lastInbound.IsZero() && time.Since(l.lastInbound) > 2*time.Duration(h)*time.Second {
		if l.metrics != nil {
			l.metrics.HeartbeatsMissed.Inc()
		}
		return l.fatal(amqperr.NewConnectionError(0, "missed heartbeat"))
	}
	l.conn.QueueHeartbeat()
	return nil
}

// StartHeartbeat arms the reactor-driven heartbeat ticker once the
// handshake has negotiated an interval. Run calls it once it observes
// connection.Connected; with a negotiated heartbeat of 0 it does nothing.
func (l *Loop) StartHeartbeat(ctx context.Context) {
	h := l.conn.Heartbeat()
	if h == 0 {
		return
	}
	l.reactor.StartHeartbeat(ctx, time.Duration(h)*time.Second, l.tick)
}
