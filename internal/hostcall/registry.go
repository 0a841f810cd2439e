package hostcall

import (
	"context"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func installRegister(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, namePtr, nameLen, verPtr, verLen uint32, envID, procID uint64) uint32 {
			name := readString(mod, "register:name", namePtr, nameLen)
			version := readString(mod, "register:version", verPtr, verLen)

			envFound, procFound, valid := HostFromContext(ctx).Register(name, version, envID, procID)
			if !envFound || !procFound {
				panic(trap.New(trap.KindUnknownResource, "register"))
			}
			if !valid {
				return statusRecoverable
			}
			return statusSuccess
		}).
		Export("register")
}

func installUnregister(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, namePtr, nameLen, verPtr, verLen uint32, envID uint64) uint32 {
			name := readString(mod, "unregister:name", namePtr, nameLen)
			version := readString(mod, "unregister:version", verPtr, verLen)

			envFound, valid, removed := HostFromContext(ctx).Unregister(name, version, envID)
			if !envFound {
				panic(trap.New(trap.KindUnknownResource, "unregister"))
			}
			if !valid {
				return statusRecoverable
			}
			if !removed {
				return statusNotFound
			}
			return statusSuccess
		}).
		Export("unregister")
}

func installLookup(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, namePtr, nameLen, queryPtr, queryLen, idPtr uint32) uint32 {
			name := readString(mod, "lookup:name", namePtr, nameLen)
			query := readString(mod, "lookup:query", queryPtr, queryLen)

			host := HostFromContext(ctx)
			procID, valid, found := host.Lookup(name, query)
			if !valid {
				errID := registerError(host, trap.NewRecoverable(trap.RecoverableSemver, errBadSemver))
				writeUint64(mod, "lookup:idPtr", idPtr, errID)
				return statusRecoverable
			}
			if !found {
				return statusNotFound
			}
			writeUint64(mod, "lookup:idPtr", idPtr, procID)
			return statusSuccess
		}).
		Export("lookup")
}
