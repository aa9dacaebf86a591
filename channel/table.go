package channel

import (
	"github.com/go-logr/logr"

	"github.com/kornstar11/lapin-go/internal/amqperr"
)

// Table indexes open Channels by id and allocates new ids, per spec.md
// §4.4's "smallest unused id in 1..=channel_max" rule and invariant 3
// ("a channel-id is reused only after its holder has observed Close-Ok
// or a terminal error"). The I/O loop is the sole owner of a Table;
// spec.md §9 keeps every other holder to a cloneable command-queue
// handle instead.
type Table struct {
	max      uint16
	frameMax uint32
	log      logr.Logger
	channels map[uint16]*Channel
}

// NewTable builds an empty Table. max == 0 means unbounded (spec.md §3).
func NewTable(max uint16, frameMax uint32, log logr.Logger) *Table {
	return &Table{max: max, frameMax: frameMax, log: log, channels: map[uint16]*Channel{}}
}

// Allocate picks the smallest unused id in 1..=max (or 1..=65535 when
// max == 0) and registers a new Channel under it.
func (t *Table) Allocate() (*Channel, error) {
	limit := t.max
	if limit == 0 {
		limit = 0xFFFF
	}
	for id := uint16(1); id <= limit; id++ {
		if _, taken := t.channels[id]; !taken {
			ch := New(id, t.frameMax, t.log)
			t.channels[id] = ch
			return ch, nil
		}
		if id == limit {
			break
		}
	}
	return nil, amqperr.ErrNoAvailableChannel
}

// Get looks up an open channel by id.
func (t *Table) Get(id uint16) (*Channel, bool) {
	ch, ok := t.channels[id]
	return ch, ok
}

// Remove releases id for reuse. Callers MUST have already observed
// Close-Ok or a terminal error on the channel (invariant 3).
func (t *Table) Remove(id uint16) { delete(t.channels, id) }

// All returns every currently tracked channel, for connection-scope
// teardown (Connection.Close rejects every channel's outstanding RPCs).
func (t *Table) All() []*Channel {
	out := make([]*Channel, 0, len(t.channels))
	for _, ch := range t.channels {
		out = append(out, ch)
	}
	return out
}

// FailAll force-transitions every channel to Error with err, for
// connection teardown.
func (t *Table) FailAll(err error) {
	for _, ch := range t.channels {
		ch.Fail(err)
	}
}
