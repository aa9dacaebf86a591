package channel

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kornstar11/lapin-go/internal/wire"
)

func TestChannelOpenResolvesOnOpenOk(t *testing.T) {
	ch := New(1, 4096, logr.Discard())
	resolver, frame := ch.Open()
	assert.Equal(t, Opening, ch.State())
	_, ok := frame.Method.(*wire.ChannelOpen)
	assert.True(t, ok)

	require.NoError(t, ch.HandleMethod(&wire.ChannelOpenOk{}))
	assert.Equal(t, Open, ch.State())
	_, err := resolver.Wait()
	require.NoError(t, err)
}

// TestPublishFragmentsBody matches spec.md §8 scenario 2 exactly: a
// 10,000-byte payload over frame_max=4096 yields body fragments of
// 4088, 4088, 1824 bytes.
func TestPublishFragmentsBody(t *testing.T) {
	ch := New(1, 4096, logr.Discard())
	ch.state = Open
	body := make([]byte, 10000)
	frames := ch.Publish("ex", "rk", false, false, nil, body)
	require.Len(t, frames, 5) // publish + header + 3 body fragments

	_, ok := frames[0].Method.(*wire.BasicPublish)
	require.True(t, ok)
	assert.Equal(t, wire.FrameTypeHeader, frames[1].Kind)
	assert.Equal(t, uint64(10000), frames[1].BodySize)

	sizes := []int{len(frames[2].Body), len(frames[3].Body), len(frames[4].Body)}
	assert.Equal(t, []int{4088, 4088, 1824}, sizes)
	assert.Equal(t, 10000, sizes[0]+sizes[1]+sizes[2])
}

// TestUnexpectedMethodMidContentIsProtocolError matches spec.md §8
// scenario 3: a Method frame injected mid-assembly is an error.
func TestUnexpectedMethodMidContentIsProtocolError(t *testing.T) {
	ch := New(1, 4096, logr.Discard())
	ch.state = Open
	require.NoError(t, ch.HandleHeader(wire.Frame{BodySize: 100, ClassID: wire.ClassBasic}))
	assert.Equal(t, ReceivingContent, ch.State())

	err := ch.HandleMethod(&wire.BasicQosOk{})
	require.Error(t, err)
	assert.Equal(t, Error, ch.State())
}

// TestRemoteChannelCloseRejectsOutstandingRPCs matches spec.md §8
// scenario 4.
func TestRemoteChannelCloseRejectsOutstandingRPCs(t *testing.T) {
	ch := New(3, 4096, logr.Discard())
	ch.state = Open
	resolver, _ := ch.SendRPC(&wire.QueueDeclare{Queue: "q"}, false)

	err := ch.HandleMethod(&wire.ChannelClose{ReplyCode: 406, ReplyText: "PRECONDITION_FAILED", ClassID_: 60, MethodID_: 40})
	require.NoError(t, err)
	assert.Equal(t, Closed, ch.State())

	_, rpcErr := resolver.Wait()
	require.Error(t, rpcErr)
}

// TestConsumerCancelFromBroker matches spec.md §8 scenario 6.
func TestConsumerCancelFromBroker(t *testing.T) {
	ch := New(1, 4096, logr.Discard())
	ch.state = Open
	c, _, _ := ch.Consume("q", "c1", false, false, false, nil)

	require.NoError(t, ch.HandleMethod(&wire.BasicCancel{ConsumerTag: "c1"}))
	reason, err := c.Status.Wait()
	require.NoError(t, err)
	assert.True(t, reason.ServerInitiated)

	err = ch.HandleMethod(&wire.BasicDeliver{ConsumerTag: "c1", DeliveryTag: 1})
	require.NoError(t, err) // the deliver method frame alone doesn't carry content; failure surfaces on the header
	err = ch.HandleHeader(wire.Frame{BodySize: 0, ClassID: wire.ClassBasic})
	require.Error(t, err)
	assert.Equal(t, Error, ch.State())
}

func TestFlowPausesPublishUntilResumed(t *testing.T) {
	ch := New(1, 4096, logr.Discard())
	ch.state = Open
	require.NoError(t, ch.HandleMethod(&wire.ChannelFlow{Active: false}))

	frames := ch.Publish("ex", "rk", false, false, nil, []byte("hi"))
	assert.Nil(t, frames)

	require.NoError(t, ch.HandleMethod(&wire.ChannelFlow{Active: true}))
	released := ch.TakeReleased()
	assert.Len(t, released, 3) // publish + header + one body fragment
}
