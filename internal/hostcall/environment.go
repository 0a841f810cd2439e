package hostcall

import (
	"context"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func installCreateEnvironment(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, configID uint64, idPtr uint32) uint32 {
			envID, found := HostFromContext(ctx).CreateEnvironment(ctx, configID)
			if !found {
				panic(trap.New(trap.KindUnknownResource, "create_environment"))
			}
			writeUint64(mod, "create_environment:idPtr", idPtr, envID)
			return statusSuccess
		}).
		Export("create_environment")
}

func installDropEnvironment(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, id uint64) {
			if !HostFromContext(ctx).DropEnvironment(id) {
				panic(trap.New(trap.KindUnknownResource, "drop_environment"))
			}
		}).
		Export("drop_environment")
}
