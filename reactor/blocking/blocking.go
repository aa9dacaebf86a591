// Package blocking is a thin, reference Reactor adapter built on ordinary
// blocking io.Reader/io.Writer sockets. It is not part of the protocol
// core (spec.md §1 keeps the reactor choice external); it exists so the
// core can be exercised end-to-end in tests against a plain net.Conn (or
// an in-memory net.Pipe) without requiring a real non-blocking/epoll
// runtime, the same way a thin adapter would be offered for whichever one
// or two runtimes a host ecosystem actually uses.
package blocking

import (
	"context"
	"sync"
	"time"

	"github.com/kornstar11/lapin-go/reactor"
)

type slot struct {
	socket reactor.Socket
	state  *reactor.Handle
}

// Reactor is a reference Reactor implementation over blocking sockets.
// PollRead/PollWrite mark readiness immediately and let the core's own
// subsequent Read/Write call do the actual blocking; only the heartbeat
// ticker is a genuine background task, spawned through the injected
// Executor per spec.md §6's `spawn(task)` contract.
type Reactor struct {
	executor reactor.Executor

	mu    sync.Mutex
	slots map[reactor.SlotID]*slot
	next  reactor.SlotID
}

// Builder implements reactor.Builder for this adapter.
type Builder struct{}

func (Builder) Build(executor reactor.Executor) reactor.Reactor {
	return New(executor)
}

// New constructs a blocking-adapter Reactor bound to executor.
func New(executor reactor.Executor) *Reactor {
	return &Reactor{executor: executor, slots: map[reactor.SlotID]*slot{}}
}

func (r *Reactor) Register(socket reactor.Socket, state *reactor.Handle) (reactor.SlotID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := r.next
	r.slots[id] = &slot{socket: socket, state: state}
	return id, nil
}

func (r *Reactor) Deregister(slot reactor.SlotID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, slot)
}

// PollRead and PollWrite mark the slot ready immediately: a plain
// io.Reader/io.Writer has no way to report readiness without consuming
// bytes, so this adapter pushes the wait into the core's own blocking
// Read/Write call instead of polling ahead of it. A production
// epoll/kqueue adapter implements the true one-shot edge-triggered re-arm
// spec.md §4.2 mandates against a non-blocking fd.
func (r *Reactor) PollRead(id reactor.SlotID) {
	r.mu.Lock()
	s, ok := r.slots[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	s.state.Set(reactor.EventReadable)
}

func (r *Reactor) PollWrite(id reactor.SlotID) {
	r.mu.Lock()
	s, ok := r.slots[id]
	r.mu.Unlock()
	if !ok {
		return
	}
	s.state.Set(reactor.EventWritable)
}

func (r *Reactor) StartHeartbeat(ctx context.Context, interval time.Duration, onTick func()) {
	_ = r.executor.Spawn(func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				onTick()
			}
		}
	})
}
