package wire

import (
	"github.com/pkg/errors"
)

// FrameType tags the eight-bit frame-type octet.
type FrameType uint8

const (
	FrameTypeMethod    FrameType = 1
	FrameTypeHeader    FrameType = 2
	FrameTypeBody      FrameType = 3
	FrameTypeHeartbeat FrameType = 8
)

// FrameEnd is the mandatory trailing octet of every framed AMQP frame.
const FrameEnd byte = 0xCE

// ProtocolHeaderBytes is the fixed 8-byte preamble sent once at connect.
var ProtocolHeaderBytes = [8]byte{'A', 'M', 'Q', 'P', 0, 0, 9, 1}

// Frame is the tagged variant described by spec.md §3. Exactly one of the
// non-zero-value fields is meaningful, selected by Kind/IsProtocolHeader.
type Frame struct {
	IsProtocolHeader bool
	IsHeartbeat      bool

	Kind    FrameType
	Channel uint16

	// Method frame payload.
	Method MethodArgs

	// Header frame payload.
	ClassID        uint16
	BodySize       uint64
	PropertyFlags  uint16
	Properties     Table

	// Body frame payload. Not copied: points into the decode buffer's
	// backing array for the Body frame's lifetime, same as a bufio.Reader
	// slice; callers that retain it past the next Decode call must copy.
	Body []byte
}

// ProtocolHeaderFrame builds the literal ProtocolHeader frame.
func ProtocolHeaderFrame() Frame { return Frame{IsProtocolHeader: true} }

// HeartbeatFrame builds the literal channel-0 Heartbeat frame.
func HeartbeatFrame() Frame { return Frame{IsHeartbeat: true, Kind: FrameTypeHeartbeat} }

// DecodeResult distinguishes "not enough bytes yet" from a parsed frame.
type DecodeResult struct {
	Frame    Frame
	Consumed int
	// Incomplete is true when buf held less than one full frame; Frame and
	// Consumed are zero-valued and buf was left untouched.
	Incomplete bool
}

// Decode attempts to parse one frame from the front of buf. It never
// consumes a partial frame: on Incomplete, the caller should read more
// bytes and retry with a larger buf.
func Decode(buf []byte, frameMax uint32) (DecodeResult, error) {
	if len(buf) >= 8 && string(buf[:8]) == string(ProtocolHeaderBytes[:]) {
		return DecodeResult{Frame: ProtocolHeaderFrame(), Consumed: 8}, nil
	}

	// type(1) + channel(2) + length(4) = 7 byte frame header.
	if len(buf) < 7 {
		return DecodeResult{Incomplete: true}, nil
	}
	typ := FrameType(buf[0])
	channel := beUint16(buf[1:3])
	length := beUint32(buf[3:7])

	if frameMax > 0 && length > frameMax {
		return DecodeResult{}, errors.Wrapf(ErrProtocol, "frame length %d exceeds frame_max %d", length, frameMax)
	}

	total := 7 + int(length) + 1 // + frame-end octet
	if len(buf) < total {
		return DecodeResult{Incomplete: true}, nil
	}
	payload := buf[7 : 7+int(length)]
	if buf[total-1] != FrameEnd {
		return DecodeResult{}, errors.Wrapf(ErrProtocol, "missing frame-end octet (got 0x%02x)", buf[total-1])
	}

	f := Frame{Kind: typ, Channel: channel}
	switch typ {
	case FrameTypeHeartbeat:
		f.IsHeartbeat = true
		if channel != 0 {
			return DecodeResult{}, errors.Wrap(ErrProtocol, "heartbeat on non-zero channel")
		}
	case FrameTypeMethod:
		r := NewReader(payload)
		classID, err := r.ReadShort()
		if err != nil {
			return DecodeResult{}, err
		}
		methodID, err := r.ReadShort()
		if err != nil {
			return DecodeResult{}, err
		}
		args, err := DecodeMethodArgs(classID, methodID, r)
		if err != nil {
			return DecodeResult{}, err
		}
		f.Method = args
	case FrameTypeHeader:
		r := NewReader(payload)
		classID, err := r.ReadShort()
		if err != nil {
			return DecodeResult{}, err
		}
		if _, err := r.ReadShort(); err != nil { // weight, always 0
			return DecodeResult{}, err
		}
		bodySize, err := r.ReadLongLong()
		if err != nil {
			return DecodeResult{}, err
		}
		flags, err := r.ReadShort()
		if err != nil {
			return DecodeResult{}, err
		}
		props, err := decodePropertiesForFlags(r, flags)
		if err != nil {
			return DecodeResult{}, err
		}
		f.ClassID = classID
		f.BodySize = bodySize
		f.PropertyFlags = flags
		f.Properties = props
	case FrameTypeBody:
		f.Body = payload
	default:
		return DecodeResult{}, errors.Wrapf(ErrProtocol, "unknown frame type %d", typ)
	}

	return DecodeResult{Frame: f, Consumed: total}, nil
}

// Encode serializes f, capped at frameMax total bytes (0 = unbounded, used
// only before frame_max negotiation completes). Returns ErrSerialization,
// wrapping the open question in spec.md §9 against unbounded growth.
func Encode(f Frame, frameMax uint32) ([]byte, error) {
	if f.IsProtocolHeader {
		out := make([]byte, 8)
		copy(out, ProtocolHeaderBytes[:])
		return out, nil
	}

	w := NewWriter(0) // payload itself isn't capped; the whole frame is, below
	var typ FrameType
	switch {
	case f.IsHeartbeat:
		typ = FrameTypeHeartbeat
	case f.Method != nil:
		typ = FrameTypeMethod
		if err := w.WriteShort(f.Method.ClassID()); err != nil {
			return nil, err
		}
		if err := w.WriteShort(f.Method.MethodID()); err != nil {
			return nil, err
		}
		if err := f.Method.Encode(w); err != nil {
			return nil, err
		}
	case f.Kind == FrameTypeHeader:
		typ = FrameTypeHeader
		if err := w.WriteShort(f.ClassID); err != nil {
			return nil, err
		}
		if err := w.WriteShort(0); err != nil { // weight
			return nil, err
		}
		if err := w.WriteLongLong(f.BodySize); err != nil {
			return nil, err
		}
		flags, encodedProps, err := encodeProperties(f.Properties)
		if err != nil {
			return nil, err
		}
		if err := w.WriteShort(flags); err != nil {
			return nil, err
		}
		if err := w.WriteBytes(encodedProps); err != nil {
			return nil, err
		}
	case f.Kind == FrameTypeBody:
		typ = FrameTypeBody
		if err := w.WriteBytes(f.Body); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrap(ErrSerialization, "frame has no populated variant")
	}

	payload := w.Bytes()
	total := 7 + len(payload) + 1
	if frameMax > 0 && uint32(total) > frameMax {
		return nil, errors.Wrapf(ErrSerialization, "encoded frame of %d bytes exceeds frame_max %d", total, frameMax)
	}

	out := make([]byte, 0, total)
	out = append(out, byte(typ))
	out = appendUint16(out, f.Channel)
	out = appendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	out = append(out, FrameEnd)
	return out, nil
}

func beUint16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func appendUint16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendUint32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
