// Package reactor defines the narrow contract spec.md §4.2 and §6 describe
// between the protocol core and an arbitrary async I/O runtime: a socket
// readiness handle, a five-method Reactor interface, and a task-spawn
// capability. No concrete runtime lives here; see the Reactor interface
// for the shape host adapters must provide.
package reactor

import "sync/atomic"

// Event enumerates the readiness edges a Handle tracks.
type Event uint32

const (
	EventReadable Event = 1 << iota
	EventWritable
	EventError
)

// Handle is the small, cloneable object the core and the host runtime
// share to signal socket readiness. Wake is idempotent and safe to call
// from any goroutine; the I/O loop drains pending events on each wake.
type Handle struct {
	pending atomic.Uint32
	wake    func()
}

// NewHandle returns a Handle that calls wakeFn (non-nil) whenever an event
// is set, so the owning I/O loop can be roused promptly.
func NewHandle(wakeFn func()) *Handle {
	if wakeFn == nil {
		wakeFn = func() {}
	}
	return &Handle{wake: wakeFn}
}

// Set records ev as pending and wakes the I/O loop. Safe for concurrent
// callers; setting the same event twice before it is consumed collapses
// into one pending bit, matching the edge-triggered reactor contract.
func (h *Handle) Set(ev Event) {
	h.pending.Or(uint32(ev))
	h.wake()
}

// Take atomically reads and clears the pending event mask.
func (h *Handle) Take() Event {
	return Event(h.pending.Swap(0))
}

// Wake manually rouses the I/O loop without setting any readiness bit,
// used when only the command queue (not the socket) has new work.
func (h *Handle) Wake() { h.wake() }
