package ioloop

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kornstar11/lapin-go/channel"
	"github.com/kornstar11/lapin-go/connection"
	"github.com/kornstar11/lapin-go/internal/amqperr"
	"github.com/kornstar11/lapin-go/internal/wire"
	"github.com/kornstar11/lapin-go/reactor/blocking"
)

type goExecutor struct{}

func (goExecutor) Spawn(task func()) error {
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

// TestHandshakeOverPipe drives the Loop against an in-memory net.Pipe
// peer acting as a minimal broker, matching spec.md §8 scenario 1.
func TestHandshakeOverPipe(t *testing.T) {
	clientConn, brokerConn := net.Pipe()
	defer clientConn.Close()
	defer brokerConn.Close()

	conn := connection.New(connection.Config{Credentials: connection.PlainCredentials{User: "guest", Password: "guest"}})
	channels := channel.NewTable(0, 0, logr.Discard())
	loop, _, err := New(clientConn, blocking.Builder{}, goExecutor{}, conn, channels, nil, logr.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	hdr := readFrame(t, brokerConn)
	assert.True(t, hdr.IsProtocolHeader)

	writeFrame(t, brokerConn, wire.Frame{
		Kind: wire.FrameTypeMethod, Channel: 0,
		Method: &wire.ConnectionStart{Mechanisms: "PLAIN", Locales: "en_US"},
	})
	startOkFrame := readFrame(t, brokerConn)
	startOk, ok := startOkFrame.Method.(*wire.ConnectionStartOk)
	require.True(t, ok)
	assert.Equal(t, "\x00guest\x00guest", startOk.Response)

	writeFrame(t, brokerConn, wire.Frame{
		Kind: wire.FrameTypeMethod, Channel: 0,
		Method: &wire.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 0},
	})
	tuneOkFrame := readFrame(t, brokerConn)
	_, ok = tuneOkFrame.Method.(*wire.ConnectionTuneOk)
	require.True(t, ok)
	openFrame := readFrame(t, brokerConn)
	open, ok := openFrame.Method.(*wire.ConnectionOpen)
	require.True(t, ok)
	assert.Equal(t, "/", open.VirtualHost)

	writeFrame(t, brokerConn, wire.Frame{
		Kind: wire.FrameTypeMethod, Channel: 0,
		Method: &wire.ConnectionOpenOk{},
	})

	require.NoError(t, loop.WaitConnected(ctx))
	assert.Equal(t, connection.Connected, conn.State())
	cancel()
	<-done
}

// TestHeartbeatTimeoutFailsConnection matches spec.md §8 scenario 5:
// heartbeat negotiated at 1s, no inbound traffic for 2s, the loop tears
// the connection down with a ConnectionError.
func TestHeartbeatTimeoutFailsConnection(t *testing.T) {
	clientConn, brokerConn := net.Pipe()
	defer clientConn.Close()
	defer brokerConn.Close()

	conn := connection.New(connection.Config{Credentials: connection.PlainCredentials{User: "guest", Password: "guest"}})
	channels := channel.NewTable(0, 0, logr.Discard())
	loop, _, err := New(clientConn, blocking.Builder{}, goExecutor{}, conn, channels, nil, logr.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	readFrame(t, brokerConn) // protocol header
	writeFrame(t, brokerConn, wire.Frame{
		Kind: wire.FrameTypeMethod, Channel: 0,
		Method: &wire.ConnectionStart{Mechanisms: "PLAIN", Locales: "en_US"},
	})
	readFrame(t, brokerConn) // Start-Ok
	writeFrame(t, brokerConn, wire.Frame{
		Kind: wire.FrameTypeMethod, Channel: 0,
		Method: &wire.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 1},
	})
	readFrame(t, brokerConn) // Tune-Ok
	readFrame(t, brokerConn) // Open
	writeFrame(t, brokerConn, wire.Frame{Kind: wire.FrameTypeMethod, Channel: 0, Method: &wire.ConnectionOpenOk{}})

	require.NoError(t, loop.WaitConnected(ctx))
	assert.EqualValues(t, 1, conn.Heartbeat())

	// net.Pipe is unbuffered and synchronous: the client still queues its
	// own heartbeat frames on every non-fatal tick, and those writes would
	// block forever with nobody reading. Drain them without ever replying,
	// so the client's inbound silence is what trips the timeout.
	go func() {
		buf := make([]byte, 4096)
		for {
			if _, err := brokerConn.Read(buf); err != nil {
				return
			}
		}
	}()

	// The broker peer goes silent from here on; after two missed
	// intervals the loop must fail the connection on its own.
	select {
	case err := <-done:
		require.Error(t, err)
		_, ok := err.(*amqperr.ConnectionError)
		assert.True(t, ok, "expected *amqperr.ConnectionError, got %T: %v", err, err)
	case <-time.After(4 * time.Second):
		t.Fatal("loop did not fail on missed heartbeat")
	}
	assert.Equal(t, connection.Error, conn.State())
}
