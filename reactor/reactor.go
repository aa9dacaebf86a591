package reactor

import (
	"context"
	"io"
	"time"
)

// Socket is the minimal transport the core consumes: a duplex byte stream.
// TCP/TLS dialing, DNS resolution, and socket options are the host's
// concern (spec.md §1's Out of scope); the core only ever reads and writes
// bytes through this interface.
type Socket interface {
	io.Reader
	io.Writer
	io.Closer
}

// SlotID identifies a socket registered with a Reactor.
type SlotID uint64

// Executor is the task-spawning capability spec.md §6 names: run a
// fire-and-forget task to completion on whatever the host's scheduler is.
type Executor interface {
	Spawn(task func()) error
}

// Reactor is the abstract runtime adapter spec.md §4.2 and §6 describe.
// Implementations MUST be reentrant-safe: PollRead/PollWrite may be called
// again from inside the I/O loop immediately after a previous registration
// fires, with no interleaving restriction.
type Reactor interface {
	// Register attaches socket to the runtime and returns a slot used for
	// subsequent poll calls. The passed-in Handle receives readiness edges.
	Register(socket Socket, state *Handle) (SlotID, error)

	// PollRead arms a one-shot, edge-triggered notification: state.Set
	// (EventReadable) fires the next time slot becomes readable, then the
	// arming is consumed and must be re-requested.
	PollRead(slot SlotID)

	// PollWrite is PollRead's write-readiness counterpart.
	PollWrite(slot SlotID)

	// StartHeartbeat spawns a task that ticks every interval and invokes
	// onTick, until ctx is cancelled. Used to drive spec.md §4.6 step 5.
	StartHeartbeat(ctx context.Context, interval time.Duration, onTick func())

	// Deregister releases any runtime-side resources tied to slot.
	Deregister(slot SlotID)
}

// Builder constructs a Reactor bound to the Executor it spawns tasks on.
// Build takes no heartbeat source; the heartbeat is armed later through
// the Reactor's StartHeartbeat.
type Builder interface {
	Build(executor Executor) Reactor
}
