package rpcloop

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kornstar11/lapin-go/channel"
	"github.com/kornstar11/lapin-go/connection"
	"github.com/kornstar11/lapin-go/internal/wire"
	"github.com/kornstar11/lapin-go/reactor"
)

func newTestLoop(t *testing.T) (*Loop, Handle, *connection.Connection, *channel.Table, *int) {
	t.Helper()
	conn := connection.New(connection.Config{Credentials: connection.PlainCredentials{User: "guest", Password: "guest"}})
	channels := channel.NewTable(0, 4096, logr.Discard())
	wakes := 0
	wake := reactor.NewHandle(func() { wakes++ })
	loop, handle := NewLoop(8, conn, channels, wake)
	return loop, handle, conn, channels, &wakes
}

func TestHandleSendWakesAndQueues(t *testing.T) {
	loop, handle, conn, channels, wakes := newTestLoop(t)
	_ = channels
	handle.Send(SetConnectionError{Err: assertErr})
	assert.Equal(t, 1, *wakes)
	loop.Drain()
	assert.Equal(t, connection.Error, conn.State())
}

var assertErr = assertError{}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func TestDrainAppliesBasicAckNackReject(t *testing.T) {
	loop, handle, conn, channels, _ := newTestLoop(t)
	ch, err := channels.Allocate()
	require.NoError(t, err)

	handle.Send(BasicAck{Channel: ch.ID, Tag: 1, Multiple: false})
	handle.Send(BasicNack{Channel: ch.ID, Tag: 2, Multiple: true, Requeue: true})
	handle.Send(BasicReject{Channel: ch.ID, Tag: 3, Requeue: false})
	loop.Drain()

	out := conn.DrainOutbound()
	require.Len(t, out, 3)
	ack, ok := out[0].Method.(*wire.BasicAck)
	require.True(t, ok)
	assert.EqualValues(t, 1, ack.DeliveryTag)
	nack, ok := out[1].Method.(*wire.BasicNack)
	require.True(t, ok)
	assert.True(t, nack.Multiple)
	assert.True(t, nack.Requeue)
	reject, ok := out[2].Method.(*wire.BasicReject)
	require.True(t, ok)
	assert.EqualValues(t, 3, reject.DeliveryTag)
}

func TestDrainIgnoresUnknownChannel(t *testing.T) {
	loop, handle, conn, _, _ := newTestLoop(t)
	handle.Send(BasicAck{Channel: 99, Tag: 1})
	loop.Drain()
	assert.Empty(t, conn.DrainOutbound())
}

func TestCloseChannelQueuesChannelClose(t *testing.T) {
	loop, handle, conn, channels, _ := newTestLoop(t)
	ch, err := channels.Allocate()
	require.NoError(t, err)

	handle.Send(CloseChannel{Channel: ch.ID, Code: 200, Text: "bye"})
	loop.Drain()

	out := conn.DrainOutbound()
	require.Len(t, out, 1)
	closeMethod, ok := out[0].Method.(*wire.ChannelClose)
	require.True(t, ok)
	assert.EqualValues(t, 200, closeMethod.ReplyCode)
	assert.Equal(t, channel.Closing, ch.State())
}

func TestCloseConnectionFailsAllChannels(t *testing.T) {
	loop, handle, conn, channels, _ := newTestLoop(t)
	ch, err := channels.Allocate()
	require.NoError(t, err)

	handle.Send(CloseConnection{Code: 320, Text: "shutdown", ClassID: 0, MethodID: 0})
	loop.Drain()

	assert.Equal(t, connection.Closing, conn.State())
	assert.Equal(t, channel.Error, ch.State())
}

func TestRemoveChannelDeletesFromTable(t *testing.T) {
	loop, handle, _, channels, _ := newTestLoop(t)
	ch, err := channels.Allocate()
	require.NoError(t, err)

	handle.Send(RemoveChannel{Channel: ch.ID, Err: assertErr})
	loop.Drain()

	_, ok := channels.Get(ch.ID)
	assert.False(t, ok)
}

func TestRunOnLoopExecutesWithExclusiveAccess(t *testing.T) {
	loop, handle, conn, channels, _ := newTestLoop(t)

	var sawConn *connection.Connection
	var sawChannels *channel.Table
	done := make(chan struct{})
	handle.Send(RunOnLoop{Fn: func(c *connection.Connection, ch *channel.Table) {
		sawConn = c
		sawChannels = ch
		close(done)
	}})
	loop.Drain()

	<-done
	assert.Same(t, conn, sawConn)
	assert.Same(t, channels, sawChannels)
}
