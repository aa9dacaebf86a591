package connection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kornstar11/lapin-go/internal/wire"
)

// TestHandshakeHappyPath drives the exact sequence spec.md §8 scenario 1
// describes: Start -> StartOk, Tune -> TuneOk+Open, Open-Ok -> Connected.
func TestHandshakeHappyPath(t *testing.T) {
	c := New(Config{Credentials: PlainCredentials{User: "guest", Password: "guest"}})
	c.Start()

	frames := c.DrainOutbound()
	require.Len(t, frames, 1)
	assert.True(t, frames[0].IsProtocolHeader)
	assert.Equal(t, Connecting, c.State())

	require.NoError(t, c.HandleFrame(wire.Frame{
		Channel: 0, Kind: wire.FrameTypeMethod,
		Method: &wire.ConnectionStart{Mechanisms: "PLAIN", Locales: "en_US"},
	}))
	frames = c.DrainOutbound()
	require.Len(t, frames, 1)
	startOk, ok := frames[0].Method.(*wire.ConnectionStartOk)
	require.True(t, ok)
	assert.Equal(t, "PLAIN", startOk.Mechanism)
	assert.Equal(t, "\x00guest\x00guest", startOk.Response)
	assert.Equal(t, "en_US", startOk.Locale)

	require.NoError(t, c.HandleFrame(wire.Frame{
		Channel: 0, Kind: wire.FrameTypeMethod,
		Method: &wire.ConnectionTune{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60},
	}))
	frames = c.DrainOutbound()
	require.Len(t, frames, 2)
	tuneOk, ok := frames[0].Method.(*wire.ConnectionTuneOk)
	require.True(t, ok)
	assert.Equal(t, uint16(2047), tuneOk.ChannelMax)
	assert.Equal(t, uint32(131072), tuneOk.FrameMax)
	assert.Equal(t, uint16(60), tuneOk.Heartbeat)
	open, ok := frames[1].Method.(*wire.ConnectionOpen)
	require.True(t, ok)
	assert.Equal(t, "/", open.VirtualHost)

	require.NoError(t, c.HandleFrame(wire.Frame{
		Channel: 0, Kind: wire.FrameTypeMethod,
		Method: &wire.ConnectionOpenOk{},
	}))
	assert.Equal(t, Connected, c.State())
	assert.Equal(t, uint32(131072), c.FrameMax())
	assert.Equal(t, uint16(2047), c.ChannelMax())
	assert.Equal(t, uint16(60), c.Heartbeat())
}

func TestNegotiateFrameMaxTakesMinimum(t *testing.T) {
	c := New(Config{Credentials: PlainCredentials{}, FrameMax: 4096})
	c.negotiate(&wire.ConnectionTune{FrameMax: 131072, ChannelMax: 0, Heartbeat: 30})
	assert.Equal(t, uint32(4096), c.FrameMax())
}

func TestNegotiateHeartbeatPrefersClient(t *testing.T) {
	c := New(Config{Credentials: PlainCredentials{}, Heartbeat: 10})
	c.negotiate(&wire.ConnectionTune{Heartbeat: 60})
	assert.Equal(t, uint16(10), c.Heartbeat())
}

func TestUnexpectedMethodDuringHandshakeIsProtocolError(t *testing.T) {
	c := New(Config{Credentials: PlainCredentials{}})
	c.Start()
	c.DrainOutbound()

	err := c.HandleFrame(wire.Frame{Channel: 0, Kind: wire.FrameTypeMethod, Method: &wire.BasicQos{}})
	require.Error(t, err)
	assert.Equal(t, Error, c.State())
}

// TestBlockedPausesContentUntilUnblocked matches spec.md §4.4's
// Connection.Blocked/Unblocked flow control, analogous to Channel.Flow.
func TestBlockedPausesContentUntilUnblocked(t *testing.T) {
	c := New(Config{Credentials: PlainCredentials{}})
	c.state = Connected

	require.NoError(t, c.HandleFrame(wire.Frame{
		Channel: 0, Kind: wire.FrameTypeMethod,
		Method: &wire.ConnectionBlocked{Reason: "low disk"},
	}))

	c.SendContent(wire.Frame{Kind: wire.FrameTypeMethod, Channel: 1, Method: &wire.BasicPublish{Exchange: "ex"}})
	assert.Empty(t, c.DrainOutbound())

	require.NoError(t, c.HandleFrame(wire.Frame{
		Channel: 0, Kind: wire.FrameTypeMethod,
		Method: &wire.ConnectionUnblocked{},
	}))
	frames := c.DrainOutbound()
	require.Len(t, frames, 1)
	_, ok := frames[0].Method.(*wire.BasicPublish)
	assert.True(t, ok)
}

// TestBlockedNeverHoldsControlTraffic: channel-0 control frames (e.g. the
// Close that ends a blocked connection) are never held.
func TestBlockedNeverHoldsControlTraffic(t *testing.T) {
	c := New(Config{Credentials: PlainCredentials{}})
	c.state = Connected
	require.NoError(t, c.HandleFrame(wire.Frame{
		Channel: 0, Kind: wire.FrameTypeMethod,
		Method: &wire.ConnectionBlocked{Reason: "low disk"},
	}))

	c.InitiateClose(200, "goodbye", 0, 0)
	frames := c.DrainOutbound()
	require.Len(t, frames, 1)
	_, ok := frames[0].Method.(*wire.ConnectionClose)
	assert.True(t, ok)
}

func TestRemoteCloseTransitionsToClosing(t *testing.T) {
	c := New(Config{Credentials: PlainCredentials{}})
	c.state = Connected

	err := c.HandleFrame(wire.Frame{
		Channel: 0, Kind: wire.FrameTypeMethod,
		Method: &wire.ConnectionClose{ReplyCode: 320, ReplyText: "CONNECTION_FORCED"},
	})
	require.Error(t, err)
	assert.Equal(t, Closing, c.State())
	frames := c.DrainOutbound()
	require.Len(t, frames, 1)
	_, ok := frames[0].Method.(*wire.ConnectionCloseOk)
	assert.True(t, ok)
}
