package hostcall

import (
	"context"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func installAddModule(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, envID uint64, ptr, length, idPtr uint32) uint32 {
			bytes := readBytes(mod, "add_module:bytes", ptr, length)
			host := HostFromContext(ctx)
			modID, envFound, compiled := host.AddModule(ctx, envID, bytes)
			if !envFound {
				panic(trap.New(trap.KindUnknownResource, "add_module"))
			}
			if !compiled {
				errID := registerError(host, trap.NewRecoverable(trap.RecoverableCompile, errModuleCompile))
				writeUint64(mod, "add_module:idPtr", idPtr, errID)
				return statusRecoverable
			}
			writeUint64(mod, "add_module:idPtr", idPtr, modID)
			return statusSuccess
		}).
		Export("add_module")
}

func installAddThisModule(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, idPtr uint32) uint32 {
			host := HostFromContext(ctx)
			modID, compiled := host.AddThisModule(ctx)
			if !compiled {
				errID := registerError(host, trap.NewRecoverable(trap.RecoverableCompile, errModuleCompile))
				writeUint64(mod, "add_this_module:idPtr", idPtr, errID)
				return statusRecoverable
			}
			writeUint64(mod, "add_this_module:idPtr", idPtr, modID)
			return statusSuccess
		}).
		Export("add_this_module")
}

func installDropModule(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, id uint64) {
			if !HostFromContext(ctx).DropModule(id) {
				panic(trap.New(trap.KindUnknownResource, "drop_module"))
			}
		}).
		Export("drop_module")
}
