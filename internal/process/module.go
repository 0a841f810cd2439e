package process

import (
	"context"
	"fmt"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Module owns a compiled Wasm artifact, the original bytes it was compiled
// from (kept so add_this_module can recompile them in a different
// Environment), and a strong reference to the owning Environment. Cheap to
// share by pointer; one Module backs every process spawned from it (§3).
type Module struct {
	original []byte
	compiled wazero.CompiledModule
	env      *Environment
}

// Environment returns the Module's owning environment.
func (m *Module) Environment() *Environment {
	return m.env
}

// Bytes returns the module's original, pre-plugin-transform source bytes.
func (m *Module) Bytes() []byte {
	return m.original
}

// Config returns the owning environment's config snapshot, a convenience
// used by fuel accounting and host-call handlers.
func (m *Module) Config() ConfigSnapshot {
	return m.env.Config()
}

// Close releases the compiled artifact and drops the Module's reference to
// its Environment.
func (m *Module) Close(ctx context.Context) error {
	err := m.compiled.Close(ctx)
	if relErr := m.env.Release(ctx); relErr != nil && err == nil {
		err = relErr
	}
	return err
}

// HasExport reports whether the module exports a function named fn, without
// instantiating it. Used to resolve spawn's function_name eagerly (§4.F step
// 5) before a process goroutine is launched.
func (m *Module) HasExport(fn string) bool {
	_, ok := m.compiled.ExportedFunctions()[fn]
	return ok
}

// Instantiate creates a fresh guest instance of the module against its
// environment's linker, using cfg for stdio/arg/fs wiring, and resolves fn
// as an exported entry point. A missing entry is a recoverable error; an
// instantiate failure is recoverable too (§4.F step 5, §4.J).
func (m *Module) Instantiate(ctx context.Context, cfg wazero.ModuleConfig, fn string) (api.Module, api.Function, error) {
	instance, err := m.env.engine.InstantiateModule(ctx, m.compiled, cfg)
	if err != nil {
		return nil, nil, trap.NewRecoverable(trap.RecoverableInstantiate, fmt.Errorf("process: instantiate: %w", err))
	}

	entryFn := instance.ExportedFunction(fn)
	if entryFn == nil {
		_ = instance.Close(ctx)
		return nil, nil, trap.NewRecoverable(trap.RecoverableMissingEntry, fmt.Errorf("process: entry function %q not exported", fn))
	}

	return instance, entryFn, nil
}
