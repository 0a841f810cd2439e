package process

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/lunatic-rt/lunatic-go/wireformat"
)

// This file implements hostcall.Host on *Process: every lunatic::process::*
// call bottoms out in one of these methods, operating on the calling
// process's own resource tables, mailboxes, and links.

func (p *Process) CreateConfig(maxMemory, maxFuel uint64) uint64 {
	return p.configs.Add(NewConfig(maxMemory, maxFuel))
}

func (p *Process) DropConfig(id uint64) bool {
	_, ok := p.configs.Remove(id)
	return ok
}

func (p *Process) AllowNamespace(id uint64, prefix string) bool {
	cfg, ok := p.configs.Get(id)
	if !ok {
		return false
	}
	cfg.AllowNamespace(prefix)
	return true
}

func (p *Process) AddPlugin(ctx context.Context, id uint64, blob []byte) (found, valid bool) {
	cfg, ok := p.configs.Get(id)
	if !ok {
		return false, false
	}
	validator := func(b []byte) error {
		return p.module.Environment().Plugins().Validate(ctx, b)
	}
	return true, cfg.AddPlugin(blob, validator) == nil
}

func (p *Process) CreateEnvironment(ctx context.Context, configID uint64) (uint64, bool) {
	cfg, ok := p.configs.Get(configID)
	if !ok {
		return 0, false
	}
	env, err := NewEnvironment(ctx, cfg.Snapshot())
	if err != nil {
		panic(trap.Wrap(trap.KindEngine, "create_environment", err))
	}
	return p.environments.Add(env), true
}

func (p *Process) DropEnvironment(id uint64) bool {
	env, ok := p.environments.Remove(id)
	if ok {
		_ = env.Release(context.Background())
	}
	return ok
}

func (p *Process) AddModule(ctx context.Context, envID uint64, bytes []byte) (modID uint64, envFound, compiled bool) {
	env, ok := p.environments.Get(envID)
	if !ok {
		return 0, false, false
	}
	mod, err := env.CreateModule(ctx, bytes)
	if err != nil {
		return 0, true, false
	}
	return p.modules.Add(mod), true, true
}

func (p *Process) AddThisModule(ctx context.Context) (modID uint64, compiled bool) {
	env, err := NewEnvironment(ctx, p.module.Config())
	if err != nil {
		panic(trap.Wrap(trap.KindEngine, "add_this_module", err))
	}
	mod, err := env.CreateModule(ctx, p.module.Bytes())
	if err != nil {
		_ = env.Release(ctx)
		return 0, false
	}
	return p.modules.Add(mod), true
}

func (p *Process) DropModule(id uint64) bool {
	mod, ok := p.modules.Remove(id)
	if ok {
		_ = mod.Close(context.Background())
	}
	return ok
}

func (p *Process) Spawn(ctx context.Context, link int64, modID uint64, fn string, params []wireformat.Param) (procID uint64, modFound, fnFound bool) {
	mod, ok := p.modules.Get(modID)
	if !ok {
		return 0, false, false
	}
	return p.doSpawn(ctx, link, mod, fn, params)
}

func (p *Process) InheritSpawn(ctx context.Context, link int64, fn string, params []wireformat.Param) (procID uint64, fnFound bool) {
	id, _, found := p.doSpawn(ctx, link, p.module, fn, params)
	return id, found
}

// doSpawn is Spawn and InheritSpawn's shared core.
func (p *Process) doSpawn(ctx context.Context, link int64, mod *Module, fn string, params []wireformat.Param) (procID uint64, modFound, fnFound bool) {
	var req *linkRequest
	if link != 0 {
		tag := link
		req = &linkRequest{tag: &tag, parent: p}
	}

	result, err := p.scheduler.spawn(ctx, mod, fn, params, req)
	if err != nil {
		return 0, true, false
	}
	return p.processes.Add(result.handle), true, true
}

func (p *Process) DropProcess(id uint64) bool {
	_, ok := p.processes.Remove(id)
	return ok
}

func (p *Process) CloneProcess(id uint64) (uint64, bool) {
	h, ok := p.processes.Get(id)
	if !ok {
		return 0, false
	}
	return p.processes.Add(h), true
}

func (p *Process) SleepMs(ctx context.Context, ms uint64) {
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
	case <-ctx.Done():
	}
}

func (p *Process) SetDieWhenLinkDies(flag bool) {
	p.dieWhenLinkDies.Store(flag)
}

func (p *Process) This() uint64 {
	return p.processes.Add(p.selfHandle)
}

func (p *Process) ID(handle uint64) (uuid.UUID, bool) {
	h, ok := p.processes.Get(handle)
	if !ok {
		return uuid.UUID{}, false
	}
	return h.ID(), true
}

func (p *Process) ThisEnv() uint64 {
	env := p.module.Environment()
	env.Retain()
	return p.environments.Add(env)
}

func (p *Process) Link(tag *int64, handle uint64) bool {
	h, ok := p.processes.Get(handle)
	if !ok {
		return false
	}
	p.signalMailbox.Send(LinkSignal(tag, h))
	h.Send(LinkSignal(tag, p.selfHandle))
	return true
}

func (p *Process) Unlink(handle uint64) bool {
	h, ok := p.processes.Get(handle)
	if !ok {
		return false
	}
	p.signalMailbox.Send(UnlinkSignal(h))
	h.Send(UnlinkSignal(p.selfHandle))
	return true
}

func (p *Process) Register(name, version string, envID, procID uint64) (envFound, procFound, valid bool) {
	env, envFound := p.environments.Get(envID)
	proc, procFound := p.processes.Get(procID)
	if !envFound || !procFound {
		return envFound, procFound, false
	}
	err := env.Registry().Insert(name, version, proc)
	return true, true, err == nil
}

func (p *Process) Unregister(name, version string, envID uint64) (envFound, valid, removed bool) {
	env, ok := p.environments.Get(envID)
	if !ok {
		return false, false, false
	}
	prior, err := env.Registry().Remove(name, version)
	if err != nil {
		return true, false, false
	}
	return true, true, prior != nil
}

func (p *Process) Lookup(name, query string) (procID uint64, valid, found bool) {
	h, err := p.module.Environment().Registry().Get(name, query)
	if err != nil {
		return 0, false, false
	}
	if h == nil {
		return 0, true, false
	}
	return p.processes.Add(h), true, true
}

func (p *Process) RegisterError(err error) uint64 {
	return p.errors.Add(err)
}
