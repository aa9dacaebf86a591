package channel

import (
	"github.com/kornstar11/lapin-go/internal/amqperr"
	"github.com/kornstar11/lapin-go/internal/wire"
)

// pendingDelivery bridges a Basic.Deliver/Basic.GetOk method frame
// (received first) to the Header+Body frames that follow it, per
// spec.md §3's content-assembly model.
type pendingDelivery struct {
	deliver *wire.BasicDeliver
	get     *wire.BasicGetOk
}

func (ch *Channel) startDelivery(args *wire.BasicDeliver) error {
	ch.pendingDeliver = &pendingDelivery{deliver: args}
	return nil
}

func (ch *Channel) startGet(args *wire.BasicGetOk) error {
	ch.pendingDeliver = &pendingDelivery{get: args}
	return nil
}

// HandleHeader routes an inbound Header frame into the content
// assembler, per spec.md invariant 1: a Header frame only appears when
// no assembly is already active on this channel.
func (ch *Channel) HandleHeader(f wire.Frame) error {
	if ch.incoming.active {
		return ch.failProto("UNEXPECTED_FRAME: header received mid-content", f.ClassID, 0)
	}
	ch.setState(ReceivingContent)
	pd := ch.pendingDeliver
	ch.pendingDeliver = nil
	onDeliver := func(props wire.Table, body []byte) error { return ch.dispatchDelivery(pd, props, body) }
	if f.BodySize == 0 {
		err := onDeliver(f.Properties, nil)
		if err == nil {
			ch.setState(Open)
		}
		return err
	}
	ch.incoming.startHeader(f.ClassID, f.BodySize, f.Properties, onDeliver)
	return nil
}

// HandleBody appends a Body fragment to the active assembly, completing
// the delivery once so_far reaches body_size.
func (ch *Channel) HandleBody(b []byte) error {
	if !ch.incoming.active {
		return ch.failProto("UNEXPECTED_FRAME: body received with no active header", 0, 0)
	}
	complete, err := ch.incoming.appendBody(b)
	if complete && err == nil {
		ch.setState(Open)
	}
	return err
}

// dispatchDelivery hands an assembled delivery to its consumer. A
// Basic.Deliver naming a tag with no live (non-cancelled) consumer is a
// protocol violation per spec.md §8 scenario 6: the broker must not send
// Basic.Deliver for a tag it has already been told (via Basic.Cancel) is
// gone.
func (ch *Channel) dispatchDelivery(pd *pendingDelivery, props wire.Table, body []byte) error {
	switch {
	case pd == nil:
		// Basic.Return's header/body: no consumer or Get is waiting.
	case pd.deliver != nil:
		c, ok := ch.consumers[pd.deliver.ConsumerTag]
		if !ok || c.cancelled {
			return ch.failProto("UNEXPECTED_FRAME: Basic.Deliver for a cancelled or unknown consumer",
				pd.deliver.ClassID(), pd.deliver.MethodID())
		}
		c.Deliveries <- Delivery{
			ConsumerTag: pd.deliver.ConsumerTag,
			DeliveryTag: pd.deliver.DeliveryTag,
			Redelivered: pd.deliver.Redelivered,
			Exchange:    pd.deliver.Exchange,
			RoutingKey:  pd.deliver.RoutingKey,
			Properties:  props,
			Body:        body,
		}
	case pd.get != nil:
		if ch.pendingGet != nil {
			ch.pendingGet.Resolve(&GetResult{
				Ok: true, DeliveryTag: pd.get.DeliveryTag, Redelivered: pd.get.Redelivered,
				Exchange: pd.get.Exchange, RoutingKey: pd.get.RoutingKey,
				MessageCount: pd.get.MessageCount, Properties: props, Body: body,
			})
			ch.pendingGet = nil
		}
	}
	return nil
}

// Publish queues Basic.Publish + Header + fragmented Body frames,
// segmented so each Body payload is at most frameMax-8 bytes, per
// spec.md §4.4's send discipline for content methods. If the channel is
// flow-paused, the frames are queued to the hold list instead and
// returned (empty) for the caller to send when Channel.Flow(true)
// arrives.
func (ch *Channel) Publish(exchange, routingKey string, mandatory, immediate bool, props wire.Table, body []byte) []wire.Frame {
	frames := []wire.Frame{
		{Kind: wire.FrameTypeMethod, Channel: ch.ID, Method: &wire.BasicPublish{
			Exchange: exchange, RoutingKey: routingKey, Mandatory: mandatory, Immediate: immediate,
		}},
		{Kind: wire.FrameTypeHeader, Channel: ch.ID, ClassID: wire.ClassBasic, BodySize: uint64(len(body)), Properties: props},
	}
	frames = append(frames, ch.fragmentBody(body)...)
	if !ch.flowOK {
		ch.holdList = append(ch.holdList, frames...)
		return nil
	}
	return frames
}

func (ch *Channel) fragmentBody(body []byte) []wire.Frame {
	if len(body) == 0 {
		return nil
	}
	maxPayload := int(ch.frameMax) - 8
	if maxPayload <= 0 {
		maxPayload = len(body)
	}
	var frames []wire.Frame
	for off := 0; off < len(body); off += maxPayload {
		end := off + maxPayload
		if end > len(body) {
			end = len(body)
		}
		frames = append(frames, wire.Frame{Kind: wire.FrameTypeBody, Channel: ch.ID, Body: body[off:end]})
	}
	return frames
}

// drainHoldList releases frames queued while flow was paused.
func (ch *Channel) drainHoldList() []wire.Frame {
	held := ch.holdList
	ch.holdList = nil
	return held
}

// TakeReleased returns and clears frames freed by a Channel.Flow(true)
// resume, for the ioloop to append to the connection's outbound queue.
func (ch *Channel) TakeReleased() []wire.Frame {
	r := ch.released
	ch.released = nil
	return r
}
