package process

import (
	"context"
	"fmt"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/tetratelabs/wazero"
)

// pluginAllocateExport, pluginDeallocateExport and pluginTransformExport are
// the exports every plugin module must provide: the allocator pair the host
// uses to pass the input bytes into the plugin, and the transform itself.
const (
	pluginAllocateExport   = "allocate"
	pluginDeallocateExport = "deallocate"
	pluginTransformExport  = "transform"
)

// PluginApplier compiles and runs plugin transforms: Wasm modules exporting
// a `transform(ptr, len) -> packed(ptr, len)` function that rewrites a
// module's raw bytes before compilation (§4.D), for example to instrument
// fuel accounting or inject custom imports. It executes plugin code on the
// wazero runtime it is given: an Environment passes its own engine, and the
// CLI passes a separate runtime used only for validation.
type PluginApplier struct {
	runtime wazero.Runtime
}

// NewPluginApplier wraps runtime for plugin execution. The caller retains
// ownership and must Close it.
func NewPluginApplier(runtime wazero.Runtime) *PluginApplier {
	return &PluginApplier{runtime: runtime}
}

// Validate compiles blob and checks it exports the plugin ABI, without
// running it. Used by Config.AddPlugin to reject malformed blobs eagerly
// (recoverable, per §4.C).
func (a *PluginApplier) Validate(ctx context.Context, blob []byte) error {
	compiled, err := a.runtime.CompileModule(ctx, blob)
	if err != nil {
		return trap.NewRecoverable(trap.RecoverableCompile, fmt.Errorf("plugin: %w", err))
	}
	defer func() { _ = compiled.Close(ctx) }()

	for _, name := range []string{pluginTransformExport, pluginAllocateExport, pluginDeallocateExport} {
		if _, ok := compiled.ExportedFunctions()[name]; !ok {
			return trap.NewRecoverable(trap.RecoverableCompile, fmt.Errorf("plugin: missing required export %q", name))
		}
	}
	return nil
}

// Apply runs plugins in order over input, feeding each plugin's output to
// the next, and returns the final bytes. A failure at any stage is
// recoverable (§4.D).
func (a *PluginApplier) Apply(ctx context.Context, plugins [][]byte, input []byte) ([]byte, error) {
	current := input
	for i, blob := range plugins {
		out, err := a.applyOne(ctx, blob, current)
		if err != nil {
			return nil, trap.NewRecoverable(trap.RecoverableCompile, fmt.Errorf("plugin %d: %w", i, err))
		}
		current = out
	}
	return current, nil
}

func (a *PluginApplier) applyOne(ctx context.Context, blob, input []byte) ([]byte, error) {
	compiled, err := a.runtime.CompileModule(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	defer func() { _ = compiled.Close(ctx) }()

	instance, err := a.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("instantiate: %w", err)
	}
	defer func() { _ = instance.Close(ctx) }()

	allocate := instance.ExportedFunction(pluginAllocateExport)
	deallocate := instance.ExportedFunction(pluginDeallocateExport)
	transform := instance.ExportedFunction(pluginTransformExport)
	if allocate == nil || deallocate == nil || transform == nil {
		return nil, fmt.Errorf("missing required export")
	}

	results, err := allocate.Call(ctx, uint64(len(input)))
	if err != nil || len(results) == 0 {
		return nil, fmt.Errorf("allocate: %w", err)
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: wasm32 pointers are always 32-bit
	defer func() {
		//nolint:errcheck // deallocation is best-effort cleanup
		deallocate.Call(ctx, uint64(ptr), uint64(len(input)))
	}()

	if !instance.Memory().Write(ptr, input) {
		return nil, fmt.Errorf("write input: out of bounds")
	}

	out, err := transform.Call(ctx, uint64(ptr), uint64(len(input)))
	if err != nil || len(out) == 0 {
		return nil, fmt.Errorf("transform: %w", err)
	}

	outPtr, outLen := uint32(out[0]>>32), uint32(out[0]) //nolint:gosec // G115: packed wasm32 ptr/len
	data, ok := instance.Memory().Read(outPtr, outLen)
	if !ok {
		return nil, fmt.Errorf("read transform result: out of bounds")
	}

	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}
