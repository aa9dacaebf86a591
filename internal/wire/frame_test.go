package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, f Frame) []byte {
	t.Helper()
	b, err := Encode(f, 131072)
	require.NoError(t, err)
	return b
}

func TestFrameRoundTrip(t *testing.T) {
	testData := []struct {
		name  string
		frame Frame
	}{
		{"protocol header", ProtocolHeaderFrame()},
		{"heartbeat", HeartbeatFrame()},
		{
			"method",
			Frame{Channel: 1, Method: &ConnectionTuneOk{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60}},
		},
		{
			"header",
			Frame{
				Kind:     FrameTypeHeader,
				Channel:  1,
				ClassID:  ClassBasic,
				BodySize: 10000,
				Properties: Table{
					{Key: "content-type", Value: "text/plain"},
					{Key: "delivery-mode", Value: uint8(2)},
				},
			},
		},
		{"body", Frame{Kind: FrameTypeBody, Channel: 1, Body: []byte("hello world")}},
	}

	for _, td := range testData {
		t.Run(td.name, func(t *testing.T) {
			encoded := mustEncode(t, td.frame)
			result, err := Decode(encoded, 131072)
			require.NoError(t, err)
			assert.False(t, result.Incomplete)
			assert.Equal(t, len(encoded), result.Consumed)

			got := result.Frame
			assert.Equal(t, td.frame.IsProtocolHeader, got.IsProtocolHeader)
			assert.Equal(t, td.frame.IsHeartbeat, got.IsHeartbeat)
			assert.Equal(t, td.frame.Channel, got.Channel)
			if td.frame.Method != nil {
				assert.Equal(t, td.frame.Method, got.Method)
			}
			if td.frame.Kind == FrameTypeHeader {
				assert.Equal(t, td.frame.BodySize, got.BodySize)
				assert.Equal(t, td.frame.Properties, got.Properties)
			}
			if td.frame.Kind == FrameTypeBody {
				assert.Equal(t, td.frame.Body, got.Body)
			}
		})
	}
}

func TestDecodePartialPrefixIsIncomplete(t *testing.T) {
	encoded := mustEncode(t, Frame{Channel: 1, Method: &ConnectionTuneOk{ChannelMax: 2047, FrameMax: 131072, Heartbeat: 60}})

	for n := 0; n < len(encoded); n++ {
		prefix := append([]byte(nil), encoded[:n]...)
		result, err := Decode(prefix, 131072)
		require.NoError(t, err, "prefix length %d", n)
		assert.True(t, result.Incomplete, "prefix length %d should be incomplete", n)
		assert.Equal(t, prefix, encoded[:n], "decode must not mutate the buffer")
	}
}

func TestDecodeRejectsBadFrameEnd(t *testing.T) {
	encoded := mustEncode(t, Frame{Channel: 1, Method: &ChannelCloseOk{}})
	encoded[len(encoded)-1] = 0x00
	_, err := Decode(encoded, 131072)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDecodeRejectsOversizedFrame(t *testing.T) {
	encoded := mustEncode(t, Frame{Kind: FrameTypeBody, Channel: 1, Body: make([]byte, 100)})
	_, err := Decode(encoded, 16)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestEncodeCapsAtFrameMax(t *testing.T) {
	_, err := Encode(Frame{Kind: FrameTypeBody, Channel: 1, Body: make([]byte, 1000)}, 64)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestTablePreservesOrderOnRoundTrip(t *testing.T) {
	tbl := Table{
		{Key: "z", Value: int32(1)},
		{Key: "a", Value: "hello"},
		{Key: "m", Value: true},
	}
	w := NewWriter(0)
	require.NoError(t, w.WriteTable(tbl))

	r := NewReader(w.Bytes())
	got, err := r.ReadTable()
	require.NoError(t, err)
	require.Len(t, got, len(tbl))
	for i := range tbl {
		assert.Equal(t, tbl[i].Key, got[i].Key)
	}
}
