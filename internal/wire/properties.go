package wire

import "github.com/pkg/errors"

// propertyBits names the fourteen standard Basic content-header properties
// and the property-flags bit each occupies (bit 15 down to bit 2; bits 1-0
// are reserved and always zero).
var propertyBits = []struct {
	key string
	bit uint
}{
	{"content-type", 15},
	{"content-encoding", 14},
	{"headers", 13},
	{"delivery-mode", 12},
	{"priority", 11},
	{"correlation-id", 10},
	{"reply-to", 9},
	{"expiration", 8},
	{"message-id", 7},
	{"timestamp", 6},
	{"type", 5},
	{"user-id", 4},
	{"app-id", 3},
	{"cluster-id", 2},
}

// encodeProperties renders a property Table into its AMQP wire form: a
// bitmask (property-flags) plus the present values packed in bit order. A
// value of the wrong Go type for its property, or a short-string property
// whose value exceeds 255 bytes, is a SerializationError per spec.md §7
// rather than a silently truncated or corrupted frame.
func encodeProperties(props Table) (uint16, []byte, error) {
	var flags uint16
	w := NewWriter(0)
	for _, pb := range propertyBits {
		v, ok := props.Get(pb.key)
		if !ok {
			continue
		}
		flags |= 1 << pb.bit
		var err error
		switch pb.key {
		case "headers":
			t, ok := v.(Table)
			if !ok {
				err = errors.Wrapf(ErrSerialization, "property %q must be a Table, got %T", pb.key, v)
			} else {
				err = w.WriteTable(t)
			}
		case "delivery-mode", "priority":
			b, ok := v.(uint8)
			if !ok {
				err = errors.Wrapf(ErrSerialization, "property %q must be a uint8, got %T", pb.key, v)
			} else {
				err = w.WriteOctet(b)
			}
		case "timestamp":
			ts, ok := v.(uint64)
			if !ok {
				err = errors.Wrapf(ErrSerialization, "property %q must be a uint64, got %T", pb.key, v)
			} else {
				err = w.WriteTimestamp(ts)
			}
		default:
			s, ok := v.(string)
			if !ok {
				err = errors.Wrapf(ErrSerialization, "property %q must be a string, got %T", pb.key, v)
			} else {
				err = w.WriteShortString(s)
			}
		}
		if err != nil {
			return 0, nil, errors.Wrapf(err, "encoding property %q", pb.key)
		}
	}
	return flags, w.Bytes(), nil
}

func decodePropertiesForFlags(r *Reader, flags uint16) (Table, error) {
	var props Table
	for _, pb := range propertyBits {
		if flags&(1<<pb.bit) == 0 {
			continue
		}
		switch pb.key {
		case "headers":
			t, err := r.ReadTable()
			if err != nil {
				return nil, err
			}
			props = append(props, TableEntry{Key: pb.key, Value: t})
		case "delivery-mode", "priority":
			b, err := r.ReadOctet()
			if err != nil {
				return nil, err
			}
			props = append(props, TableEntry{Key: pb.key, Value: b})
		case "timestamp":
			ts, err := r.ReadTimestamp()
			if err != nil {
				return nil, err
			}
			props = append(props, TableEntry{Key: pb.key, Value: ts})
		default:
			s, err := r.ReadShortString()
			if err != nil {
				return nil, err
			}
			props = append(props, TableEntry{Key: pb.key, Value: s})
		}
	}
	return props, nil
}
