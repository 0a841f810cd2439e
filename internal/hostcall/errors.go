package hostcall

import "errors"

// errPluginInvalid and its siblings are the sentinel causes wrapped into a
// trap.Recoverable and handed to the guest as an error-resource ID, when the
// underlying failure carries no richer detail worth threading through the
// Host interface.
var (
	errPluginInvalid = errors.New("hostcall: plugin failed validation")
	errModuleCompile = errors.New("hostcall: module compile failed")
	errMissingEntry  = errors.New("hostcall: entry function not exported")
	errBadSemver     = errors.New("hostcall: malformed semver version or range")
	errRegistryMiss  = errors.New("hostcall: no registry entry satisfies the query")
)

func registerError(host Host, err error) uint64 {
	return host.RegisterError(err)
}
