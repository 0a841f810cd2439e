package hostcall

import (
	"context"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/lunatic-rt/lunatic-go/wireformat"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func installSpawn(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, link int64, modID uint64, fnPtr, fnLen, paramsPtr, paramsLen, idPtr uint32) uint32 {
			fn := readString(mod, "spawn:fn", fnPtr, fnLen)
			params := decodeSpawnParams(mod, "spawn:params", paramsPtr, paramsLen)

			host := HostFromContext(ctx)
			procID, modFound, fnFound := host.Spawn(ctx, link, modID, fn, params)
			if !modFound {
				panic(trap.New(trap.KindUnknownResource, "spawn"))
			}
			if !fnFound {
				errID := registerError(host, trap.NewRecoverable(trap.RecoverableMissingEntry, errMissingEntry))
				writeUint64(mod, "spawn:idPtr", idPtr, errID)
				return statusRecoverable
			}
			writeUint64(mod, "spawn:idPtr", idPtr, procID)
			return statusSuccess
		}).
		Export("spawn")
}

func installInheritSpawn(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, link int64, fnPtr, fnLen, paramsPtr, paramsLen, idPtr uint32) uint32 {
			fn := readString(mod, "inherit_spawn:fn", fnPtr, fnLen)
			params := decodeSpawnParams(mod, "inherit_spawn:params", paramsPtr, paramsLen)

			host := HostFromContext(ctx)
			procID, fnFound := host.InheritSpawn(ctx, link, fn, params)
			if !fnFound {
				errID := registerError(host, trap.NewRecoverable(trap.RecoverableMissingEntry, errMissingEntry))
				writeUint64(mod, "inherit_spawn:idPtr", idPtr, errID)
				return statusRecoverable
			}
			writeUint64(mod, "inherit_spawn:idPtr", idPtr, procID)
			return statusSuccess
		}).
		Export("inherit_spawn")
}

func installDropProcess(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, id uint64) {
			if !HostFromContext(ctx).DropProcess(id) {
				panic(trap.New(trap.KindUnknownResource, "drop_process"))
			}
		}).
		Export("drop_process")
}

func installCloneProcess(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, id uint64) uint64 {
			newID, ok := HostFromContext(ctx).CloneProcess(id)
			if !ok {
				panic(trap.New(trap.KindUnknownResource, "clone_process"))
			}
			return newID
		}).
		Export("clone_process")
}

// decodeSpawnParams reads the packed 17-byte parameter records at ptr/len
// and decodes them via the wireformat package, panicking with a trap.Trap
// on malformed records per §6's "any other tag traps" / "length must be a
// multiple of 17" rules.
func decodeSpawnParams(mod api.Module, source string, ptr, length uint32) []wireformat.Param {
	if length == 0 {
		return nil
	}
	raw := readBytes(mod, source, ptr, length)
	params, err := wireformat.DecodeParams(raw)
	if err != nil {
		panic(trap.Wrap(trap.KindBadParams, source, err))
	}
	return params
}
