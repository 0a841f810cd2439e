package process

import (
	"fmt"
	"strings"
	"sync"
)

// Config is a builder for Environment settings: memory cap, optional fuel
// cap, the host-call namespace allow-list, and the ordered sequence of
// plugins applied to every module compiled within an Environment created
// from it. It is cheap to clone - Snapshot takes the copy an Environment
// consumes at creation time, so later edits to the live Config never affect
// an already-created Environment (§3, "EnvConfig").
type Config struct {
	mu sync.Mutex

	maxMemory uint64
	maxFuel   *uint64 // nil = unlimited

	allowedNamespaces []string
	plugins           [][]byte
}

// NewConfig builds a Config. maxFuel of 0 means unlimited, matching the
// create_config host call's wire convention in §6.
func NewConfig(maxMemory, maxFuel uint64) *Config {
	c := &Config{maxMemory: maxMemory}
	if maxFuel != 0 {
		c.maxFuel = &maxFuel
	}
	return c
}

// AllowNamespace appends prefix to the allow-list. An empty allow-list
// means "permit all" (§4.C); adding any prefix switches to an allow-list
// policy for every namespace not covered by some added prefix.
func (c *Config) AllowNamespace(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allowedNamespaces = append(c.allowedNamespaces, prefix)
}

// IsNamespaceAllowed reports whether fqn (a fully-qualified host-call name,
// e.g. "lunatic::process::spawn") passes the allow-list: some allowed
// prefix is a prefix of fqn, or the allow-list is empty.
func (c *Config) IsNamespaceAllowed(fqn string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.allowedNamespaces) == 0 {
		return true
	}
	for _, prefix := range c.allowedNamespaces {
		if strings.HasPrefix(fqn, prefix) {
			return true
		}
	}
	return false
}

// AddPlugin validates that blob is a well-formed Wasm module exposing the
// plugin ABI (§6) and, on success, appends it to the config's plugin
// sequence. validate is injected by the caller (normally
// (*PluginApplier).Validate) so this package stays free of a direct wazero
// dependency.
func (c *Config) AddPlugin(blob []byte, validate func([]byte) error) error {
	if err := validate(blob); err != nil {
		return fmt.Errorf("process: invalid plugin: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.plugins = append(c.plugins, blob)
	return nil
}

// Snapshot captures the Config's current state as an immutable value,
// consumed by Environment creation. Later mutation of c has no effect on a
// previously taken Snapshot.
func (c *Config) Snapshot() ConfigSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	namespaces := make([]string, len(c.allowedNamespaces))
	copy(namespaces, c.allowedNamespaces)

	plugins := make([][]byte, len(c.plugins))
	for i, p := range c.plugins {
		cp := make([]byte, len(p))
		copy(cp, p)
		plugins[i] = cp
	}

	var maxFuel *uint64
	if c.maxFuel != nil {
		f := *c.maxFuel
		maxFuel = &f
	}

	return ConfigSnapshot{
		MaxMemory:         c.maxMemory,
		MaxFuel:           maxFuel,
		AllowedNamespaces: namespaces,
		Plugins:           plugins,
	}
}

// ConfigSnapshot is the frozen, shared-interior copy of a Config an
// Environment is built from.
type ConfigSnapshot struct {
	MaxMemory         uint64
	MaxFuel           *uint64
	AllowedNamespaces []string
	Plugins           [][]byte
}

// IsNamespaceAllowed reports whether fqn passes the snapshot's allow-list,
// with the same default-allow-when-empty rule as Config.IsNamespaceAllowed.
func (s ConfigSnapshot) IsNamespaceAllowed(fqn string) bool {
	if len(s.AllowedNamespaces) == 0 {
		return true
	}
	for _, prefix := range s.AllowedNamespaces {
		if strings.HasPrefix(fqn, prefix) {
			return true
		}
	}
	return false
}
