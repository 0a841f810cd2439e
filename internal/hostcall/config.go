package hostcall

import (
	"context"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const (
	statusSuccess     uint32 = 0
	statusRecoverable uint32 = 1
	statusNotFound    uint32 = 2
)

func installCreateConfig(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, maxMemory, maxFuel uint64) uint64 {
			return HostFromContext(ctx).CreateConfig(maxMemory, maxFuel)
		}).
		Export("create_config")
}

func installDropConfig(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, id uint64) {
			if !HostFromContext(ctx).DropConfig(id) {
				panic(trap.New(trap.KindUnknownResource, "drop_config"))
			}
		}).
		Export("drop_config")
}

func installAllowNamespace(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, id uint64, ptr, length uint32) {
			prefix := readString(mod, "allow_namespace:prefix", ptr, length)
			if !HostFromContext(ctx).AllowNamespace(id, prefix) {
				panic(trap.New(trap.KindUnknownResource, "allow_namespace"))
			}
		}).
		Export("allow_namespace")
}

func installAddPlugin(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, id uint64, ptr, length, idPtr uint32) uint32 {
			blob := readBytes(mod, "add_plugin:blob", ptr, length)
			host := HostFromContext(ctx)
			found, valid := host.AddPlugin(ctx, id, blob)
			if !found {
				panic(trap.New(trap.KindUnknownResource, "add_plugin"))
			}
			if !valid {
				errID := registerError(host, trap.NewRecoverable(trap.RecoverableCompile, errPluginInvalid))
				writeUint64(mod, "add_plugin:idPtr", idPtr, errID)
				return statusRecoverable
			}
			writeUint64(mod, "add_plugin:idPtr", idPtr, 0)
			return statusSuccess
		}).
		Export("add_plugin")
}
