package amqp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kornstar11/lapin-go/connection"
	"github.com/kornstar11/lapin-go/internal/wire"
)

type goTestExecutor struct{}

func (goTestExecutor) Spawn(task func()) error {
	go task()
	return nil
}

func readFrame(t *testing.T, conn net.Conn) wire.Frame {
	t.Helper()
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		res, err := wire.Decode(buf, 0)
		require.NoError(t, err)
		if !res.Incomplete {
			return res.Frame
		}
		n, err := conn.Read(chunk)
		require.NoError(t, err)
		buf = append(buf, chunk[:n]...)
	}
}

func writeFrame(t *testing.T, conn net.Conn, f wire.Frame) {
	t.Helper()
	b, err := wire.Encode(f, 0)
	require.NoError(t, err)
	_, err = conn.Write(b)
	require.NoError(t, err)
}

// runFakeBroker plays the broker's side of the connection handshake
// (protocol header through Connection.Open-Ok) and returns; the caller
// answers every later request itself.
func runFakeBroker(t *testing.T, conn net.Conn) {
	t.Helper()
	hdr := readFrame(t, conn)
	require.True(t, hdr.IsProtocolHeader)

	writeFrame(t, conn, wire.Frame{Kind: wire.FrameTypeMethod, Channel: 0,
		Method: &wire.ConnectionStart{Mechanisms: "PLAIN", Locales: "en_US"}})
	readFrame(t, conn) // Start-Ok

	writeFrame(t, conn, wire.Frame{Kind: wire.FrameTypeMethod, Channel: 0,
		Method: &wire.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 0}})
	readFrame(t, conn) // Tune-Ok
	readFrame(t, conn) // Open

	writeFrame(t, conn, wire.Frame{Kind: wire.FrameTypeMethod, Channel: 0, Method: &wire.ConnectionOpenOk{}})
}

// TestOpenAndChannelLifecycle drives amqp.Open and a full declare/bind/
// publish/consume round trip against an in-memory net.Pipe broker,
// matching spec.md §8 scenario 1's handshake plus the channel-level RPCs
// Open wires up via rpcloop.RunOnLoop.
func TestOpenAndChannelLifecycle(t *testing.T) {
	clientConn, brokerConn := net.Pipe()
	defer clientConn.Close()
	defer brokerConn.Close()

	brokerDone := make(chan struct{})
	go func() {
		defer close(brokerDone)
		runFakeBroker(t, brokerConn)

		openFrame := readFrame(t, brokerConn)
		_, ok := openFrame.Method.(*wire.ChannelOpen)
		require.True(t, ok)
		writeFrame(t, brokerConn, wire.Frame{Kind: wire.FrameTypeMethod, Channel: 1, Method: &wire.ChannelOpenOk{}})

		declFrame := readFrame(t, brokerConn)
		decl, ok := declFrame.Method.(*wire.ExchangeDeclare)
		require.True(t, ok)
		assert.Equal(t, "orders", decl.Exchange)
		writeFrame(t, brokerConn, wire.Frame{Kind: wire.FrameTypeMethod, Channel: 1, Method: &wire.ExchangeDeclareOk{}})

		qFrame := readFrame(t, brokerConn)
		_, ok = qFrame.Method.(*wire.QueueDeclare)
		require.True(t, ok)
		writeFrame(t, brokerConn, wire.Frame{Kind: wire.FrameTypeMethod, Channel: 1,
			Method: &wire.QueueDeclareOk{Queue: "orders.q", MessageCount: 0, ConsumerCount: 0}})

		bindFrame := readFrame(t, brokerConn)
		_, ok = bindFrame.Method.(*wire.QueueBind)
		require.True(t, ok)
		writeFrame(t, brokerConn, wire.Frame{Kind: wire.FrameTypeMethod, Channel: 1, Method: &wire.QueueBindOk{}})

		pubMethod := readFrame(t, brokerConn)
		pub, ok := pubMethod.Method.(*wire.BasicPublish)
		require.True(t, ok)
		assert.Equal(t, "orders", pub.Exchange)
		header := readFrame(t, brokerConn)
		assert.EqualValues(t, len("hello"), header.BodySize)
		body := readFrame(t, brokerConn)
		assert.Equal(t, []byte("hello"), body.Body)

		consumeFrame := readFrame(t, brokerConn)
		_, ok = consumeFrame.Method.(*wire.BasicConsume)
		require.True(t, ok)
		writeFrame(t, brokerConn, wire.Frame{Kind: wire.FrameTypeMethod, Channel: 1,
			Method: &wire.BasicConsumeOk{ConsumerTag: "ctag-1"}})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c, err := Open(ctx, clientConn, Config{
		Credentials: PlainCredentials{User: "guest", Password: "guest"},
		Executor:    goTestExecutor{},
	})
	require.NoError(t, err)
	assert.Equal(t, connection.Connected, c.State())

	ch, err := c.Channel(ctx)
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.EqualValues(t, 1, ch.ID())

	require.NoError(t, ch.ExchangeDeclare(ctx, "orders", "topic", true, false, false, nil))

	decl, err := ch.QueueDeclare(ctx, "orders.q", true, false, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "orders.q", decl.Queue)

	require.NoError(t, ch.QueueBind(ctx, "orders.q", "orders", "orders.created", nil))

	require.NoError(t, ch.Publish(ctx, "orders", "orders.created", false, false, nil, []byte("hello")))

	consumer, err := ch.Consume(ctx, "orders.q", "", false, false, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "ctag-1", consumer.Tag)

	<-brokerDone
}
