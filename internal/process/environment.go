package process

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/lunatic-rt/lunatic-go/internal/hostcall"
	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// globalCache speeds up compilation across every Environment created within
// one runtime process; wazero's CompilationCache is safe for concurrent use
// from many wazero.Runtime instances.
var globalCache = wazero.NewCompilationCache()

// CloseGlobalCache releases the shared compilation cache. Only needed by
// long-running hosts during graceful shutdown; a CLI invocation can skip it.
func CloseGlobalCache(ctx context.Context) error {
	return globalCache.Close(ctx)
}

const wasmPageSize = 64 * 1024

// Environment owns a wazero engine scoped to one EnvConfig snapshot: its own
// memory-limited runtime, a linker pre-populated with the config's permitted
// host calls, and the name registry shared by every process spawned inside
// it (§3, §4.E). It is reference-counted; every Module compiled within it
// holds a strong reference, released on DropModule/drop.
type Environment struct {
	engine   wazero.Runtime
	snapshot ConfigSnapshot
	registry *Registry
	plugins  *PluginApplier

	refCount atomic.Int64
	closed   atomic.Bool
}

// NewEnvironment builds an Environment from snapshot: a memory-limited
// wazero runtime, WASI, and the lunatic::process::* host calls the
// snapshot's namespace allow-list permits.
func NewEnvironment(ctx context.Context, snapshot ConfigSnapshot) (*Environment, error) {
	config := wazero.NewRuntimeConfig().
		WithCompilationCache(globalCache).
		WithCloseOnContextDone(true)

	if snapshot.MaxMemory > 0 {
		pages := uint32(snapshot.MaxMemory / wasmPageSize) //nolint:gosec // G115: derived from a caller-supplied byte cap
		if pages == 0 {
			pages = 1
		}
		config = config.WithMemoryLimitPages(pages)
	}

	engine := wazero.NewRuntimeWithConfig(ctx, config)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, engine); err != nil {
		_ = engine.Close(ctx)
		return nil, fmt.Errorf("process: instantiate WASI: %w", err)
	}

	builder := engine.NewHostModuleBuilder("lunatic")
	hostcall.RegisterHostFunctions(builder, snapshot)
	if _, err := builder.Instantiate(ctx); err != nil {
		_ = engine.Close(ctx)
		return nil, fmt.Errorf("process: instantiate host module: %w", err)
	}

	env := &Environment{
		engine:   engine,
		snapshot: snapshot,
		registry: NewRegistry(),
		plugins:  NewPluginApplier(engine),
	}
	env.refCount.Store(1)
	return env, nil
}

// Config returns the environment's immutable config snapshot.
func (e *Environment) Config() ConfigSnapshot {
	return e.snapshot
}

// Registry returns the environment's shared name registry.
func (e *Environment) Registry() *Registry {
	return e.registry
}

// Plugins returns the environment's plugin applier, used to validate plugin
// blobs before they're attached to a Config.
func (e *Environment) Plugins() *PluginApplier {
	return e.plugins
}

// Retain increments the environment's reference count. Called whenever a
// Module is created within it.
func (e *Environment) Retain() {
	e.refCount.Add(1)
}

// Release decrements the reference count, closing the underlying engine once
// it reaches zero. Safe to call from any goroutine.
func (e *Environment) Release(ctx context.Context) error {
	if e.refCount.Add(-1) > 0 {
		return nil
	}
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	return e.engine.Close(ctx)
}

// CreateModule compiles bytes within the environment: plugins configured on
// the environment's config snapshot run first, in order, over bytes; the
// final output is compiled by the engine. A plugin or compile failure is
// recoverable (§4.D, §4.E).
func (e *Environment) CreateModule(ctx context.Context, bytes []byte) (*Module, error) {
	transformed, err := e.plugins.Apply(ctx, e.snapshot.Plugins, bytes)
	if err != nil {
		return nil, err
	}

	compiled, err := e.engine.CompileModule(ctx, transformed)
	if err != nil {
		return nil, trap.NewRecoverable(trap.RecoverableCompile, fmt.Errorf("process: compile module: %w", err))
	}

	e.Retain()
	return &Module{
		original: bytes,
		compiled: compiled,
		env:      e,
	}, nil
}

// NewInstanceConfig builds the per-instantiation wazero.ModuleConfig a
// spawned process's store is configured with. Kept as a method so future
// per-environment stdio/arg wiring has one place to live.
func (e *Environment) NewInstanceConfig() wazero.ModuleConfig {
	return wazero.NewModuleConfig().WithStartFunctions()
}
