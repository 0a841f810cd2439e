package process

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/lunatic-rt/lunatic-go/internal/hostcall"
	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/lunatic-rt/lunatic-go/wireformat"
	"golang.org/x/sync/errgroup"
)

// fuelQuantum is the wall-clock stand-in for "one unit of compute" (≈10,000
// Wasm instructions, §GLOSSARY). wazero's pure-Go compiler has no
// instruction-counting fuel hook the way wasmtime does, so fuel here is
// approximated as a periodic tick counted against max_fuel; once max_fuel
// ticks have elapsed, the clock cancels the process's context - which WithCloseOnContextDone
// turns into an abrupt return from whatever host or guest call is in flight.
// This trades exactness for portability; see the design notes for the
// tradeoff this accepts.
const fuelQuantum = 2 * time.Millisecond

// run drives one process to completion: its Wasm entry future and its
// signal-handling loop run concurrently (§4.H, §5's "merge of two streams"),
// joined with an errgroup.Group so run can't return until both have
// actually exited. Either branch finishing first cancels the shared context,
// which is what stops the other - errgroup's own error-triggered
// cancellation isn't used here since neither branch reports failure through
// its return value. On return, run has already notified every linked peer.
func (p *Process) run(parentCtx context.Context) trap.ExitReason {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()
	ctx = hostcall.WithHost(ctx, p)

	var (
		mu     sync.Mutex
		reason trap.ExitReason
	)
	settle := func(r trap.ExitReason) {
		mu.Lock()
		if reason == "" {
			reason = r
		}
		mu.Unlock()
		cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settle(p.runEntry(gctx))
		return nil
	})
	g.Go(func() error {
		if r, terminated := p.drainSignals(gctx, cancel); terminated {
			settle(r)
		}
		return nil
	})
	go p.runFuelClock(ctx, cancel, p.module.Config().MaxFuel)

	_ = g.Wait()
	p.terminate(reason)
	return reason
}

// runEntry instantiates the module and calls its entry function, mapping
// the outcome to an ExitReason.
func (p *Process) runEntry(ctx context.Context) trap.ExitReason {
	instance, entry, err := p.module.Instantiate(ctx, p.module.env.NewInstanceConfig(), p.entryFn)
	if err != nil {
		return trap.ExitTrapped
	}
	defer func() { _ = instance.Close(ctx) }()

	args := make([]uint64, 0, len(p.params))
	for _, param := range p.params {
		switch param.Type {
		case wireformat.ValueTypeI32:
			args = append(args, uint64(uint32(param.I32()))) //nolint:gosec // G115: narrowing a validated i32
		case wireformat.ValueTypeI64:
			args = append(args, uint64(param.I64()))
		case wireformat.ValueTypeV128:
			v := param.V128()
			args = append(args, binary.LittleEndian.Uint64(v[:8])) // low lane; v128 locals are rare as entry args
		}
	}

	if _, err := entry.Call(ctx, args...); err != nil {
		if ctx.Err() != nil {
			return p.contextExitReason()
		}
		return trap.ExitTrapped
	}
	return trap.ExitNormal
}

// contextExitReason distinguishes why ctx was canceled when the entry call
// aborted: a Kill signal, or fuel exhaustion.
func (p *Process) contextExitReason() trap.ExitReason {
	if p.killed.Load() {
		return trap.ExitKilled
	}
	if p.fuelExhausted.Load() {
		return trap.ExitFuelExhausted
	}
	return trap.ExitKilled
}

// runFuelClock ticks every fuelQuantum, canceling ctx once maxFuel ticks
// have elapsed. maxFuel = nil means unlimited fuel: the clock then only
// counts ticks and never cancels ctx. The ticker does not itself suspend or
// yield the process.
func (p *Process) runFuelClock(ctx context.Context, cancel context.CancelFunc, maxFuel *uint64) {
	ticker := time.NewTicker(fuelQuantum)
	defer ticker.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ticks++
			if maxFuel != nil && ticks >= *maxFuel {
				p.fuelExhausted.Store(true)
				cancel()
				return
			}
		}
	}
}
