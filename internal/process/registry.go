package process

import (
	"sync"

	"github.com/Masterminds/semver/v3"
)

// registryKey is a (name, parsed version) pair, the Name Registry's entry
// key (§4.G).
type registryKey struct {
	name    string
	version string
}

// Registry is the per-environment `(name, semver version) -> process
// handle` map, queryable by semver range (§4.G). Every operation is
// non-blocking: no I/O happens while the mutex is held (§5).
type Registry struct {
	mu      sync.Mutex
	entries map[registryKey]*Handle
	// byName indexes the parsed versions registered under each name, so
	// Get can evaluate a range query without scanning the whole map.
	byName map[string][]*semver.Version
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[registryKey]*Handle),
		byName:  make(map[string][]*semver.Version),
	}
}

// Insert parses versionString as a strict semver and upserts (name,
// version) -> handle. Returns an error if versionString does not parse.
func (r *Registry) Insert(name, versionString string, handle *Handle) error {
	v, err := semver.StrictNewVersion(versionString)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{name: name, version: v.String()}
	if _, exists := r.entries[key]; !exists {
		r.byName[name] = append(r.byName[name], v)
	}
	r.entries[key] = handle
	return nil
}

// Remove parses versionString as a strict semver and removes (name,
// version), returning the prior handle if one existed. Returns an error if
// versionString does not parse.
func (r *Registry) Remove(name, versionString string) (*Handle, error) {
	v, err := semver.StrictNewVersion(versionString)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{name: name, version: v.String()}
	prior, existed := r.entries[key]
	if !existed {
		return nil, nil
	}
	delete(r.entries, key)

	versions := r.byName[name]
	for i, existing := range versions {
		if existing.Equal(v) {
			r.byName[name] = append(versions[:i:i], versions[i+1:]...)
			break
		}
	}
	if len(r.byName[name]) == 0 {
		delete(r.byName, name)
	}
	return prior, nil
}

// Get parses queryString as a semver range and returns the handle
// registered under name at the highest version satisfying it. Returns
// (nil, nil) if no entry matches, and an error if queryString does not
// parse as a range.
func (r *Registry) Get(name, queryString string) (*Handle, error) {
	constraint, err := semver.NewConstraint(queryString)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var best *semver.Version
	for _, v := range r.byName[name] {
		if !constraint.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return nil, nil
	}
	return r.entries[registryKey{name: name, version: best.String()}], nil
}
