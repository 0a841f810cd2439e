package process

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/lunatic-rt/lunatic-go/wireformat"
	"golang.org/x/sync/semaphore"
)

func errEntryNotFound(fn string) error {
	return fmt.Errorf("process: entry function %q not exported", fn)
}

// Scheduler is the cooperative, work-stealing-by-proxy-of-goroutines
// scheduler every process runs on (§5): one goroutine per process, bounded
// by a weighted semaphore so an unbounded spawn storm can't exhaust the
// host. Processes never share mutable state directly; all cross-process
// interaction happens through Handles and mailboxes.
type Scheduler struct {
	limit *semaphore.Weighted
	// root is the long-lived context every process actually runs under.
	// Kill is delivered through the signal mailbox, not context
	// cancellation, so a process's lifetime must not be tied to whatever
	// request context happened to be live at spawn time.
	root context.Context
}

// NewScheduler builds a Scheduler allowing at most maxConcurrent processes
// to run their Wasm entry function at once, all rooted at root.
// maxConcurrent <= 0 means unbounded.
func NewScheduler(root context.Context, maxConcurrent int64) *Scheduler {
	if maxConcurrent <= 0 {
		maxConcurrent = 1 << 20
	}
	return &Scheduler{limit: semaphore.NewWeighted(maxConcurrent), root: root}
}

// linkRequest carries the optional link the spawning process wants
// established with the new child, per the ordering contract in §4.F.
type linkRequest struct {
	tag    LinkTag
	parent *Process
}

// spawnResult is what spawn hands back to its caller: a Handle addressing
// the new process and a channel that receives its exit reason exactly once.
type spawnResult struct {
	handle *Handle
	done   <-chan trap.ExitReason
}

// spawn builds and launches a new process running fn within mod, passing
// params, optionally linked to req.parent. It implements §4.F steps 1-7 and,
// when req is non-nil, the link establishment ordering contract.
func (s *Scheduler) spawn(ctx context.Context, mod *Module, fn string, params []wireformat.Param, req *linkRequest) (*spawnResult, error) {
	id := uuid.New()
	signalMB := NewSignalMailbox()
	messageMB := NewMessageMailbox()
	selfHandle := NewHandle(id, signalMB)

	p := &Process{
		id:             id,
		module:         mod,
		scheduler:      s,
		signalMailbox:  signalMB,
		messageMailbox: messageMB,
		selfHandle:     selfHandle,
		entryFn:        fn,
		params:         params,
		links:          make(map[uuid.UUID]link),
		configs:        NewResourceTable[*Config](),
		environments:   NewResourceTable[*Environment](),
		modules:        NewResourceTable[*Module](),
		processes:      NewResourceTable[*Handle](),
		errors:         NewResourceTable[error](),
	}
	p.dieWhenLinkDies.Store(true)

	if !mod.HasExport(fn) {
		return nil, trap.NewRecoverable(trap.RecoverableMissingEntry, errEntryNotFound(fn))
	}

	if req != nil {
		// Step: Link(None, child) to the parent first.
		req.parent.signalMailbox.Send(LinkSignal(nil, selfHandle))
		// Step: yield the caller once so the parent processes the link
		// before its code continues.
		runtime.Gosched()
		// Step: Link(tag, parent) to the child. The child hasn't run any
		// Wasm yet, so this is the first signal its loop will see.
		parentHandle := NewHandle(req.parent.id, req.parent.signalMailbox)
		signalMB.Send(LinkSignal(req.tag, parentHandle))
	}

	done := make(chan trap.ExitReason, 1)
	if err := s.limit.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	go func() {
		defer s.limit.Release(1)
		done <- p.run(s.root)
	}()

	return &spawnResult{handle: selfHandle, done: done}, nil
}

// SpawnRoot launches the first process of a run: unlinked, with no parent
// to report back to. Used by the CLI entry point, not by a guest host call.
func (s *Scheduler) SpawnRoot(ctx context.Context, mod *Module, fn string, params []wireformat.Param) (*Handle, <-chan trap.ExitReason, error) {
	result, err := s.spawn(ctx, mod, fn, params, nil)
	if err != nil {
		return nil, nil, err
	}
	return result.handle, result.done, nil
}
