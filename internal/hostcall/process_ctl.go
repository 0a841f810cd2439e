package hostcall

import (
	"context"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func installSleepMs(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, ms uint64) {
			HostFromContext(ctx).SleepMs(ctx, ms)
		}).
		Export("sleep_ms")
}

func installDieWhenLinkDies(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, flag uint32) {
			HostFromContext(ctx).SetDieWhenLinkDies(flag != 0)
		}).
		Export("die_when_link_dies")
}

func installThis(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context) uint64 {
			return HostFromContext(ctx).This()
		}).
		Export("this")
}

func installID(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, mod api.Module, handle uint64, ptr uint32) {
			id, ok := HostFromContext(ctx).ID(handle)
			if !ok {
				panic(trap.New(trap.KindUnknownResource, "id"))
			}
			writeUUID(mod, "id:ptr", ptr, [16]byte(id))
		}).
		Export("id")
}

func installThisEnv(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context) uint64 {
			return HostFromContext(ctx).ThisEnv()
		}).
		Export("this_env")
}

func installLink(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, tag int64, handle uint64) {
			var t *int64
			if tag != 0 {
				t = &tag
			}
			if !HostFromContext(ctx).Link(t, handle) {
				panic(trap.New(trap.KindUnknownResource, "link"))
			}
		}).
		Export("link")
}

func installUnlink(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().
		WithFunc(func(ctx context.Context, handle uint64) {
			if !HostFromContext(ctx).Unlink(handle) {
				panic(trap.New(trap.KindUnknownResource, "unlink"))
			}
		}).
		Export("unlink")
}
