package hostcall

import (
	"github.com/tetratelabs/wazero"
)

// Namespace is the logical prefix every host call lives under (§6).
const Namespace = "lunatic::process::"

// NamespaceAllower is the one method RegisterHostFunctions needs from an
// environment's config snapshot. Defined here, in the leaf package, instead
// of importing process.ConfigSnapshot directly: process already imports
// hostcall (for RegisterHostFunctions and WithHost), so taking the concrete
// type here would close a cycle. process.ConfigSnapshot satisfies this
// interface without needing to know hostcall exists.
type NamespaceAllower interface {
	IsNamespaceAllowed(fqn string) bool
}

// descriptor pairs an export name with the builder step that registers it.
// Declared as data so RegisterHostFunctions can filter by the environment's
// namespace allow-list uniformly, the same table-of-(name,handler) shape the
// Design Notes suggest for dynamic dispatch over host calls.
type descriptor struct {
	name    string
	install func(wazero.HostModuleBuilder)
}

// RegisterHostFunctions builds the "lunatic" host module against builder,
// registering only the calls snapshot's allow-list permits. It must be
// called once per Environment, at construction time (§4.E): the linker is
// built once and reused for every module compiled in that environment.
func RegisterHostFunctions(builder wazero.HostModuleBuilder, snapshot NamespaceAllower) {
	for _, d := range descriptors() {
		if !snapshot.IsNamespaceAllowed(Namespace + d.name) {
			continue
		}
		d.install(builder)
	}
}

func descriptors() []descriptor {
	return []descriptor{
		{"create_config", installCreateConfig},
		{"drop_config", installDropConfig},
		{"allow_namespace", installAllowNamespace},
		{"add_plugin", installAddPlugin},
		{"create_environment", installCreateEnvironment},
		{"drop_environment", installDropEnvironment},
		{"add_module", installAddModule},
		{"add_this_module", installAddThisModule},
		{"drop_module", installDropModule},
		{"spawn", installSpawn},
		{"inherit_spawn", installInheritSpawn},
		{"drop_process", installDropProcess},
		{"clone_process", installCloneProcess},
		{"sleep_ms", installSleepMs},
		{"die_when_link_dies", installDieWhenLinkDies},
		{"this", installThis},
		{"id", installID},
		{"this_env", installThisEnv},
		{"link", installLink},
		{"unlink", installUnlink},
		{"register", installRegister},
		{"unregister", installUnregister},
		{"lookup", installLookup},
	}
}
