package channel

import (
	"github.com/kornstar11/lapin-go/internal/promise"
	"github.com/kornstar11/lapin-go/internal/wire"
)

// Consume queues Basic.Consume and pre-registers the consumer so
// deliveries arriving before Basic.Consume-Ok (legal per the protocol)
// are not dropped. The returned Consumer's Status resolves on
// cancellation; the returned resolver resolves with the Basic.Consume-Ok
// arguments, which carry the server-assigned tag, once that reply arrives.
func (ch *Channel) Consume(queue, consumerTag string, noLocal, noAck, exclusive bool, args wire.Table) (*Consumer, *promise.Resolver[wire.MethodArgs], wire.Frame) {
	consume := &wire.BasicConsume{}
	resolver := promise.New[wire.MethodArgs]()
	ch.rpcQueue = append(ch.rpcQueue, &pendingRPC{
		expects:  wire.ExpectedReply(consume.ClassID(), consume.MethodID()),
		resolver: resolver,
	})
	c := &Consumer{
		Tag:        consumerTag,
		Status:     promise.New[CancelReason](),
		Deliveries: make(chan Delivery, 16),
	}
	ch.pendingConsumer = c
	if consumerTag != "" {
		ch.consumers[consumerTag] = c
	}
	*consume = wire.BasicConsume{
		Queue: queue, ConsumerTag: consumerTag, NoLocal: noLocal, NoAck: noAck, Exclusive: exclusive, Arguments: args,
	}
	frame := wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: consume}
	return c, resolver, frame
}

// bindConsumerTag indexes the most recently issued Consume's Consumer
// under its server-assigned tag once Basic.Consume-Ok names one, for the
// case where the caller left consumerTag empty (broker chooses it). Runs
// on the I/O loop goroutine from HandleMethod, so no extra locking is
// needed beyond the single-writer discipline every Channel method relies on.
func (ch *Channel) bindConsumerTag(ok *wire.BasicConsumeOk) {
	c := ch.pendingConsumer
	ch.pendingConsumer = nil
	if c == nil {
		return
	}
	c.Tag = ok.ConsumerTag
	ch.consumers[ok.ConsumerTag] = c
}

func (ch *Channel) completeConsumer(tag string, reason CancelReason) {
	c, ok := ch.consumers[tag]
	if !ok || c.cancelled {
		return
	}
	c.cancelled = true
	delete(ch.consumers, tag)
	close(c.Deliveries)
	c.Status.Resolve(reason)
}

// CancelConsumer queues Basic.Cancel for tag.
func (ch *Channel) CancelConsumer(tag string) (*promise.Resolver[wire.MethodArgs], wire.Frame) {
	cancel := &wire.BasicCancel{ConsumerTag: tag}
	resolver := promise.New[wire.MethodArgs]()
	ch.rpcQueue = append(ch.rpcQueue, &pendingRPC{
		expects:  wire.ExpectedReply(cancel.ClassID(), cancel.MethodID()),
		resolver: resolver,
	})
	return resolver, wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: cancel}
}

// Get queues Basic.Get; the returned resolver completes when the broker
// replies Basic.GetOk (plus its Header/Body) or Basic.GetEmpty.
func (ch *Channel) Get(queue string, noAck bool) (*promise.Resolver[*GetResult], wire.Frame) {
	resolver := promise.New[*GetResult]()
	ch.pendingGet = resolver
	return resolver, wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: &wire.BasicGet{Queue: queue, NoAck: noAck}}
}

// Ack, Nack, and Reject build the corresponding fire-and-forget frames;
// spec.md §4.5 routes these through the rpcloop command queue.
func (ch *Channel) Ack(tag uint64, multiple bool) wire.Frame {
	return wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: &wire.BasicAck{DeliveryTag: tag, Multiple: multiple}}
}

func (ch *Channel) Nack(tag uint64, multiple, requeue bool) wire.Frame {
	return wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: &wire.BasicNack{DeliveryTag: tag, Multiple: multiple, Requeue: requeue}}
}

func (ch *Channel) Reject(tag uint64, requeue bool) wire.Frame {
	return wire.Frame{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: &wire.BasicReject{DeliveryTag: tag, Requeue: requeue}}
}
