package amqp

import (
	"context"

	"github.com/kornstar11/lapin-go/channel"
	innerconn "github.com/kornstar11/lapin-go/connection"
	"github.com/kornstar11/lapin-go/internal/wire"
	"github.com/kornstar11/lapin-go/rpcloop"
)

// Table is a field table attached to method arguments or message
// properties (Basic.Publish headers, declare arguments, and so on).
type Table = wire.Table

// Delivery is one fully assembled Basic.Deliver: method, header, and body.
type Delivery = channel.Delivery

// Consumer is the handle returned by Channel.Consume: Deliveries yields
// messages in arrival order, Status resolves once the consumer is
// cancelled, locally or by the broker.
type Consumer = channel.Consumer

// CancelReason records why a Consumer's Status resolved.
type CancelReason = channel.CancelReason

// GetResult is the outcome of Channel.Get.
type GetResult = channel.GetResult

// Channel is one multiplexed logical connection over a Connection. All
// methods are safe to call from any goroutine; they enqueue work onto the
// owning Connection's I/O loop and block on the result.
type Channel struct {
	conn *Connection
	ch   *channel.Channel
	id   uint16
}

// ID returns the channel number assigned at Open time.
func (c *Channel) ID() uint16 { return c.id }

// runRPC schedules fn on the I/O loop, which must call one of the
// channel.Channel RPC-issuing methods and hand back its resolver, then
// waits for ctx or the resolver to complete.
func runRPC[T any](ctx context.Context, c *Channel, fn func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[T], error)) (T, error) {
	var zero T
	resultCh := make(chan rpcOutcome[T], 1)
	c.conn.handle.Send(rpcloop.RunOnLoop{Fn: func(conn *innerconn.Connection, _ *channel.Table) {
		w, err := fn(conn, c.ch)
		if err != nil {
			resultCh <- rpcOutcome[T]{err: err}
			return
		}
		go func() {
			v, err := w.wait()
			resultCh <- rpcOutcome[T]{val: v, err: err}
		}()
	}})
	select {
	case res := <-resultCh:
		return res.val, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

type rpcOutcome[T any] struct {
	val T
	err error
}

// waiter erases the concrete promise.Resolver[X] type so runRPC can stay
// generic over the public return type T while the channel package's
// resolvers are generic over wire.MethodArgs / *GetResult internally.
type waiter[T any] struct {
	wait func() (T, error)
}

// ExchangeDeclare declares an exchange and waits for Exchange.Declare-Ok.
func (c *Channel) ExchangeDeclare(ctx context.Context, name, kind string, durable, autoDelete, internal bool, args Table) error {
	_, err := runRPC[struct{}](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[struct{}], error) {
		resolver, frame := ch.SendRPC(&wire.ExchangeDeclare{
			Exchange: name, Type: kind, Durable: durable, AutoDelete: autoDelete, Internal: internal, Arguments: args,
		}, false)
		conn.SendControl(frame)
		return &waiter[struct{}]{wait: func() (struct{}, error) { _, err := resolver.Wait(); return struct{}{}, err }}, nil
	})
	return err
}

// ExchangeDelete deletes an exchange.
func (c *Channel) ExchangeDelete(ctx context.Context, name string, ifUnused bool) error {
	_, err := runRPC[struct{}](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[struct{}], error) {
		resolver, frame := ch.SendRPC(&wire.ExchangeDelete{Exchange: name, IfUnused: ifUnused}, false)
		conn.SendControl(frame)
		return &waiter[struct{}]{wait: func() (struct{}, error) { _, err := resolver.Wait(); return struct{}{}, err }}, nil
	})
	return err
}

// QueueDeclareResult reports the broker-assigned/confirmed queue state
// from Queue.Declare-Ok.
type QueueDeclareResult struct {
	Queue         string
	MessageCount  uint32
	ConsumerCount uint32
}

// QueueDeclare declares a queue and waits for Queue.Declare-Ok.
func (c *Channel) QueueDeclare(ctx context.Context, name string, durable, exclusive, autoDelete bool, args Table) (QueueDeclareResult, error) {
	return runRPC[QueueDeclareResult](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[QueueDeclareResult], error) {
		resolver, frame := ch.SendRPC(&wire.QueueDeclare{
			Queue: name, Durable: durable, Exclusive: exclusive, AutoDelete: autoDelete, Arguments: args,
		}, false)
		conn.SendControl(frame)
		return &waiter[QueueDeclareResult]{wait: func() (QueueDeclareResult, error) {
			m, err := resolver.Wait()
			if err != nil {
				return QueueDeclareResult{}, err
			}
			ok := m.(*wire.QueueDeclareOk)
			return QueueDeclareResult{Queue: ok.Queue, MessageCount: ok.MessageCount, ConsumerCount: ok.ConsumerCount}, nil
		}}, nil
	})
}

// QueueBind binds queue to exchange under routingKey.
func (c *Channel) QueueBind(ctx context.Context, queue, exchange, routingKey string, args Table) error {
	_, err := runRPC[struct{}](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[struct{}], error) {
		resolver, frame := ch.SendRPC(&wire.QueueBind{Queue: queue, Exchange: exchange, RoutingKey: routingKey, Arguments: args}, false)
		conn.SendControl(frame)
		return &waiter[struct{}]{wait: func() (struct{}, error) { _, err := resolver.Wait(); return struct{}{}, err }}, nil
	})
	return err
}

// QueueUnbind removes a binding between queue and exchange.
func (c *Channel) QueueUnbind(ctx context.Context, queue, exchange, routingKey string, args Table) error {
	_, err := runRPC[struct{}](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[struct{}], error) {
		resolver, frame := ch.SendRPC(&wire.QueueUnbind{Queue: queue, Exchange: exchange, RoutingKey: routingKey, Arguments: args}, false)
		conn.SendControl(frame)
		return &waiter[struct{}]{wait: func() (struct{}, error) { _, err := resolver.Wait(); return struct{}{}, err }}, nil
	})
	return err
}

// QueuePurge removes all ready messages from queue, returning the count
// purged.
func (c *Channel) QueuePurge(ctx context.Context, queue string) (uint32, error) {
	return runRPC[uint32](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[uint32], error) {
		resolver, frame := ch.SendRPC(&wire.QueuePurge{Queue: queue}, false)
		conn.SendControl(frame)
		return &waiter[uint32]{wait: func() (uint32, error) {
			m, err := resolver.Wait()
			if err != nil {
				return 0, err
			}
			return m.(*wire.QueuePurgeOk).MessageCount, nil
		}}, nil
	})
}

// QueueDelete deletes queue, returning the number of messages it held.
func (c *Channel) QueueDelete(ctx context.Context, queue string, ifUnused, ifEmpty bool) (uint32, error) {
	return runRPC[uint32](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[uint32], error) {
		resolver, frame := ch.SendRPC(&wire.QueueDelete{Queue: queue, IfUnused: ifUnused, IfEmpty: ifEmpty}, false)
		conn.SendControl(frame)
		return &waiter[uint32]{wait: func() (uint32, error) {
			m, err := resolver.Wait()
			if err != nil {
				return 0, err
			}
			return m.(*wire.QueueDeleteOk).MessageCount, nil
		}}, nil
	})
}

// Qos sets the channel's prefetch limits via Basic.Qos.
func (c *Channel) Qos(ctx context.Context, prefetchCount uint16, prefetchSize uint32, global bool) error {
	_, err := runRPC[struct{}](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[struct{}], error) {
		resolver, frame := ch.SendRPC(&wire.BasicQos{PrefetchSize: prefetchSize, PrefetchCount: prefetchCount, Global: global}, false)
		conn.SendControl(frame)
		return &waiter[struct{}]{wait: func() (struct{}, error) { _, err := resolver.Wait(); return struct{}{}, err }}, nil
	})
	return err
}

// TxSelect puts the channel into transactional mode.
func (c *Channel) TxSelect(ctx context.Context) error {
	_, err := runRPC[struct{}](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[struct{}], error) {
		resolver, frame := ch.SendRPC(&wire.TxSelect{}, false)
		conn.SendControl(frame)
		return &waiter[struct{}]{wait: func() (struct{}, error) { _, err := resolver.Wait(); return struct{}{}, err }}, nil
	})
	return err
}

// TxCommit commits the current transaction.
func (c *Channel) TxCommit(ctx context.Context) error {
	_, err := runRPC[struct{}](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[struct{}], error) {
		resolver, frame := ch.SendRPC(&wire.TxCommit{}, false)
		conn.SendControl(frame)
		return &waiter[struct{}]{wait: func() (struct{}, error) { _, err := resolver.Wait(); return struct{}{}, err }}, nil
	})
	return err
}

// TxRollback rolls back the current transaction.
func (c *Channel) TxRollback(ctx context.Context) error {
	_, err := runRPC[struct{}](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[struct{}], error) {
		resolver, frame := ch.SendRPC(&wire.TxRollback{}, false)
		conn.SendControl(frame)
		return &waiter[struct{}]{wait: func() (struct{}, error) { _, err := resolver.Wait(); return struct{}{}, err }}, nil
	})
	return err
}

// Confirm puts the channel into publisher-confirm mode via Confirm.Select.
func (c *Channel) Confirm(ctx context.Context, noWait bool) error {
	_, err := runRPC[struct{}](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[struct{}], error) {
		resolver, frame := ch.SendRPC(&wire.ConfirmSelect{NoWait: noWait}, noWait)
		conn.SendControl(frame)
		return &waiter[struct{}]{wait: func() (struct{}, error) { _, err := resolver.Wait(); return struct{}{}, err }}, nil
	})
	return err
}

// Publish sends a message via Basic.Publish. It does not wait for a
// broker reply (Basic.Publish has none outside Confirm mode); it returns
// once the frames are queued on the I/O loop.
func (c *Channel) Publish(ctx context.Context, exchange, routingKey string, mandatory, immediate bool, props Table, body []byte) error {
	done := make(chan struct{}, 1)
	c.conn.handle.Send(rpcloop.RunOnLoop{Fn: func(conn *innerconn.Connection, _ *channel.Table) {
		for _, f := range c.ch.Publish(exchange, routingKey, mandatory, immediate, props, body) {
			conn.SendContent(f)
		}
		done <- struct{}{}
	}})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume issues Basic.Consume and waits for Basic.Consume-Ok, returning a
// Consumer whose Deliveries channel yields messages in arrival order.
func (c *Channel) Consume(ctx context.Context, queue, consumerTag string, noLocal, noAck, exclusive bool, args Table) (*Consumer, error) {
	return runRPC[*Consumer](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[*Consumer], error) {
		consumer, resolver, frame := ch.Consume(queue, consumerTag, noLocal, noAck, exclusive, args)
		conn.SendControl(frame)
		return &waiter[*Consumer]{wait: func() (*Consumer, error) {
			_, err := resolver.Wait()
			if err != nil {
				return nil, err
			}
			return consumer, nil
		}}, nil
	})
}

// Cancel issues Basic.Cancel for tag. CancelConsumer is fire-and-forget at
// the command-queue level (spec.md §4.5's table); the matching Consumer's
// Status resolver is the authoritative cancellation-complete signal.
func (c *Channel) Cancel(tag string) {
	c.conn.handle.Send(rpcloop.CancelConsumer{Channel: c.id, ConsumerTag: tag})
}

// Get issues Basic.Get and waits for Basic.GetOk/Basic.GetEmpty (plus, on
// GetOk, the trailing header/body).
func (c *Channel) Get(ctx context.Context, queue string, noAck bool) (*GetResult, error) {
	return runRPC[*GetResult](ctx, c, func(conn *innerconn.Connection, ch *channel.Channel) (*waiter[*GetResult], error) {
		resolver, frame := ch.Get(queue, noAck)
		conn.SendControl(frame)
		return &waiter[*GetResult]{wait: resolver.Wait}, nil
	})
}

// Ack acknowledges one or more deliveries.
func (c *Channel) Ack(tag uint64, multiple bool) {
	c.conn.handle.Send(rpcloop.BasicAck{Channel: c.id, Tag: tag, Multiple: multiple})
}

// Nack negatively acknowledges one or more deliveries.
func (c *Channel) Nack(tag uint64, multiple, requeue bool) {
	c.conn.handle.Send(rpcloop.BasicNack{Channel: c.id, Tag: tag, Multiple: multiple, Requeue: requeue})
}

// Reject rejects a single delivery.
func (c *Channel) Reject(tag uint64, requeue bool) {
	c.conn.handle.Send(rpcloop.BasicReject{Channel: c.id, Tag: tag, Requeue: requeue})
}

// Close begins a local Channel.Close with the given reply code/text.
// Outstanding RPCs on this channel are rejected as soon as the I/O loop
// applies the command; this call itself does not block on Channel.Close-Ok.
func (c *Channel) Close(code uint16, text string) {
	c.conn.handle.Send(rpcloop.CloseChannel{Channel: c.id, Code: code, Text: text})
}

// State reports the channel's current lifecycle state. Like
// Connection.State, this is a snapshot read from outside the owning I/O
// loop goroutine and is not itself a synchronization point.
func (c *Channel) State() channel.State { return c.ch.State() }
