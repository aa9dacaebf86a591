package amqp

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/kornstar11/lapin-go/channel"
	"github.com/kornstar11/lapin-go/connection"
	"github.com/kornstar11/lapin-go/ioloop"
	"github.com/kornstar11/lapin-go/reactor"
	"github.com/kornstar11/lapin-go/rpcloop"
)

// Connection is a handshaked AMQP 0-9-1 connection: the public handle
// wrapping the internal connection/channel/rpcloop/ioloop machinery spec.md
// §4 describes. Every exported method is safe to call from any goroutine;
// internally they all funnel through the single I/O loop goroutine (spec.md
// §5's "no two concurrent tasks touch the same Channel").
type Connection struct {
	conn     *connection.Connection
	channels *channel.Table
	loop     *ioloop.Loop
	handle   rpcloop.Handle

	group  *errgroup.Group
	cancel context.CancelFunc

	mu   sync.Mutex
	done bool
}

// Open performs the handshake over socket and blocks until the connection
// reaches Connected, ctx is cancelled, or the handshake fails. The returned
// Connection owns socket: closing it (via Close) also closes socket.
//
// The I/O loop runs under an errgroup.Group bound to an internal
// context derived from ctx, so a caller that cancels ctx tears the
// connection down the same way Close does.
func Open(ctx context.Context, socket reactor.Socket, cfg Config) (*Connection, error) {
	cfg = cfg.withDefaults()

	innerConn := connection.New(connection.Config{
		Credentials:      cfg.Credentials,
		VHost:            cfg.VHost,
		FrameMax:         cfg.FrameMax,
		ChannelMax:       cfg.ChannelMax,
		Heartbeat:        cfg.Heartbeat,
		ClientProperties: cfg.ClientProperties,
		Logger:           cfg.Logger,
	})
	channels := channel.NewTable(cfg.ChannelMax, innerConn.FrameMax(), cfg.Logger)

	loop, handle, err := ioloop.New(socket, cfg.ReactorBuilder, cfg.Executor, innerConn, channels, cfg.Metrics, cfg.Logger)
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(loopCtx)
	group.Go(func() error { return loop.Run(groupCtx) })

	c := &Connection{
		conn:     innerConn,
		channels: channels,
		loop:     loop,
		handle:   handle,
		group:    group,
		cancel:   cancel,
	}

	if err := loop.WaitConnected(ctx); err != nil {
		cancel()
		_ = group.Wait()
		return nil, errors.Wrap(err, "amqp: connection handshake failed")
	}
	return c, nil
}

// Channel opens a new multiplexed channel and blocks until Channel.Open-Ok
// arrives or ctx is cancelled.
func (c *Connection) Channel(ctx context.Context) (*Channel, error) {
	type openResult struct {
		ch  *channel.Channel
		err error
	}
	resultCh := make(chan openResult, 1)
	c.handle.Send(rpcloop.RunOnLoop{Fn: func(conn *connection.Connection, channels *channel.Table) {
		ch, err := channels.Allocate()
		if err != nil {
			resultCh <- openResult{err: err}
			return
		}
		resolver, frame := ch.Open()
		conn.SendControl(frame)
		go func() {
			_, err := resolver.Wait()
			resultCh <- openResult{ch: ch, err: err}
		}()
	}})

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		return &Channel{conn: c, ch: res.ch, id: res.ch.ID}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close begins a local Connection.Close with the given reply code/text,
// waits for the I/O loop to settle, and releases the underlying socket.
func (c *Connection) Close(ctx context.Context, code uint16, text string) error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil
	}
	c.done = true
	c.mu.Unlock()

	c.handle.Send(rpcloop.CloseConnection{Code: code, Text: text})
	select {
	case <-ctx.Done():
	case <-waitGroup(c.group):
	}
	c.cancel()
	return c.group.Wait()
}

// waitGroup adapts errgroup.Group.Wait into a channel so Close can select
// on it alongside ctx.Done without blocking indefinitely on a stuck peer.
func waitGroup(g *errgroup.Group) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	return done
}

// State reports the connection's current lifecycle state. Safe to call
// concurrently with any other Connection method; it is a snapshot, not a
// synchronization point.
func (c *Connection) State() connection.State { return c.conn.State() }
