// Package hostcall implements the lunatic::process::* host-call surface:
// the functions a guest module imports to build configs and environments,
// compile modules, spawn and link processes, and query the name registry.
//
// This package defines the Host interface a calling process must satisfy; it
// never imports package process itself, so process -> hostcall stays a
// one-way dependency, the same shape as the teacher's wasm -> hostfuncs
// relationship.
package hostcall

import (
	"context"

	"github.com/google/uuid"
	"github.com/lunatic-rt/lunatic-go/wireformat"
)

// Host is everything a registered host-call handler needs from the process
// that is currently executing Wasm. A *process.Process implements this.
type Host interface {
	// CreateConfig builds a new Config with the given caps and returns its
	// resource ID in the calling process's config table.
	CreateConfig(maxMemory, maxFuel uint64) uint64
	// DropConfig removes id from the config table. ok is false if id is
	// unknown (a trap condition at the call site).
	DropConfig(id uint64) (ok bool)
	// AllowNamespace appends prefix to config id's allow-list.
	AllowNamespace(id uint64, prefix string) (ok bool)
	// AddPlugin validates and attaches a plugin blob to config id. found
	// reports whether id resolved; valid reports whether blob passed
	// validation (written back as the recoverable status).
	AddPlugin(ctx context.Context, id uint64, blob []byte) (found, valid bool)

	// CreateEnvironment builds an Environment from config id's snapshot and
	// returns its resource ID. found is false if id is unknown.
	CreateEnvironment(ctx context.Context, configID uint64) (envID uint64, found bool)
	// DropEnvironment removes id from the environment table.
	DropEnvironment(id uint64) (ok bool)

	// AddModule compiles bytes (after plugin transforms) within environment
	// envID and returns the new module's resource ID. envFound is false if
	// envID is unknown; compiled is false on a compile failure.
	AddModule(ctx context.Context, envID uint64, bytes []byte) (modID uint64, envFound, compiled bool)
	// AddThisModule recompiles the calling process's own module bytes in a
	// fresh environment of the same config.
	AddThisModule(ctx context.Context) (modID uint64, compiled bool)
	// DropModule removes id from the module table.
	DropModule(id uint64) (ok bool)

	// Spawn creates a new process running fn within module modID, passing
	// params, optionally linked per link (0 = no link). Returns the new
	// process's resource ID in the caller's process table.
	Spawn(ctx context.Context, link int64, modID uint64, fn string, params []wireformat.Param) (procID uint64, modFound, fnFound bool)
	// InheritSpawn is Spawn using the caller's own module.
	InheritSpawn(ctx context.Context, link int64, fn string, params []wireformat.Param) (procID uint64, fnFound bool)
	// DropProcess removes id from the process table.
	DropProcess(id uint64) (ok bool)
	// CloneProcess duplicates the handle at id into a new table slot.
	CloneProcess(id uint64) (newID uint64, ok bool)

	// SleepMs suspends the calling process for ms milliseconds, cancellable
	// by a Kill signal delivered through ctx.
	SleepMs(ctx context.Context, ms uint64)
	// SetDieWhenLinkDies sets the calling process's die_when_link_dies flag.
	SetDieWhenLinkDies(flag bool)

	// This returns a resource ID for a handle to the calling process itself.
	This() uint64
	// ID resolves handle to a UUID. ok is false if handle is unknown.
	ID(handle uint64) (uuid.UUID, bool)
	// ThisEnv returns a resource ID for a handle to the calling process's
	// environment.
	ThisEnv() uint64

	// Link establishes a link to the process addressed by handle, per the
	// ordering contract in the link establishment rules.
	Link(tag *int64, handle uint64) (ok bool)
	// Unlink removes a link to the process addressed by handle.
	Unlink(handle uint64) (ok bool)

	// Register inserts (name, version) -> proc into envID's name registry.
	// envFound/procFound report whether the resource IDs resolved; valid
	// reports whether version parsed as strict semver.
	Register(name, version string, envID, procID uint64) (envFound, procFound, valid bool)
	// Unregister removes (name, version) from envID's registry.
	Unregister(name, version string, envID uint64) (envFound, valid, removed bool)
	// Lookup resolves (name, query) against the calling process's own
	// environment's registry, writing the matching process's resource ID.
	Lookup(name, query string) (procID uint64, valid, found bool)

	// RegisterError stores err in the calling process's error table and
	// returns its resource ID, for the recoverable-error-via-status-code
	// convention (§4.I, §7).
	RegisterError(err error) uint64
}

type contextKey struct{}

// WithHost attaches host to ctx, so host-call handlers registered once at
// environment-creation time can recover the right process on every call.
func WithHost(ctx context.Context, host Host) context.Context {
	return context.WithValue(ctx, contextKey{}, host)
}

// HostFromContext retrieves the Host attached by WithHost. It panics if none
// is present: every invocation of a guest entry function must run inside a
// context carrying its own process, so a missing Host is a wiring bug, not a
// guest error.
func HostFromContext(ctx context.Context) Host {
	host, ok := ctx.Value(contextKey{}).(Host)
	if !ok {
		panic("hostcall: no Host in context")
	}
	return host
}
