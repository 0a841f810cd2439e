package process

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/lunatic-rt/lunatic-go/wireformat"
)

// Process is one running Wasm instance: its identity, mailboxes, links, and
// the per-process resource tables every host call indexes into (§3,
// "Process state"). A Process is mutated from three goroutines: the one
// running its Wasm entry future (host calls execute synchronously on it),
// its own signal-drain loop, and its fuel clock. links is guarded by
// linksMu; dieWhenLinkDies, killed and fuelExhausted are atomics; each
// resource table carries its own lock.
type Process struct {
	id        uuid.UUID
	module    *Module
	scheduler *Scheduler

	signalMailbox  *SignalMailbox
	messageMailbox *MessageMailbox
	selfHandle     *Handle

	entryFn string
	params  []wireformat.Param

	linksMu         sync.Mutex
	links           map[uuid.UUID]link
	dieWhenLinkDies atomic.Bool

	killed        atomic.Bool
	fuelExhausted atomic.Bool

	configs      *ResourceTable[*Config]
	environments *ResourceTable[*Environment]
	modules      *ResourceTable[*Module]
	processes    *ResourceTable[*Handle]
	errors       *ResourceTable[error]
}

// link is one entry in a process's links map: the peer's handle (needed to
// deliver LinkDied) paired with the tag requested at link time.
type link struct {
	tag  LinkTag
	peer *Handle
}

// ID returns the process's UUID.
func (p *Process) ID() uuid.UUID {
	return p.id
}

// Handle returns a Handle addressing this process.
func (p *Process) Handle() *Handle {
	return p.selfHandle
}
