// Package trap implements the two-tier error taxonomy the host-call surface
// uses: fatal Traps, which terminate the guest invocation and the owning
// process, and Recoverable errors, which surface as a status code plus an
// error resource without unwinding anything.
package trap

import "fmt"

// Kind classifies a Trap by cause, matching §4.J of the runtime spec.
type Kind string

const (
	// KindMemoryOOB is raised when a pointer argument falls outside the
	// instance's linear memory.
	KindMemoryOOB Kind = "memory-oob"
	// KindInvalidUTF8 is raised when a guest string argument is not valid UTF-8.
	KindInvalidUTF8 Kind = "invalid-utf8"
	// KindUnknownResource is raised when a resource-ID argument doesn't
	// resolve in the caller's table.
	KindUnknownResource Kind = "unknown-resource"
	// KindBadParams is raised by malformed spawn parameter encoding.
	KindBadParams Kind = "bad-params"
	// KindFuelExhausted is raised when a process's fuel budget runs out.
	KindFuelExhausted Kind = "fuel-exhausted"
	// KindEngine is raised on an unexpected Wasm engine failure.
	KindEngine Kind = "engine"
	// KindSelfSend is raised when a process fails to deliver a signal to its
	// own mailbox; per §7 this indicates a runtime bug, not a guest fault.
	KindSelfSend Kind = "self-send"
)

// Trap is a fatal, non-recoverable fault. It always terminates the current
// guest invocation; the owning process exits with Reason Trapped.
type Trap struct {
	Kind Kind
	// Source tags where the trap was raised, e.g. "spawn:params" or
	// "http_request:reqPtr", to help debugging without guest introspection.
	Source string
	Err    error
}

func (t *Trap) Error() string {
	if t.Err != nil {
		return fmt.Sprintf("trap[%s] at %s: %v", t.Kind, t.Source, t.Err)
	}
	return fmt.Sprintf("trap[%s] at %s", t.Kind, t.Source)
}

func (t *Trap) Unwrap() error {
	return t.Err
}

// New constructs a Trap with no wrapped cause.
func New(kind Kind, source string) *Trap {
	return &Trap{Kind: kind, Source: source}
}

// Wrap constructs a Trap wrapping an underlying engine/runtime error.
func Wrap(kind Kind, source string, err error) *Trap {
	return &Trap{Kind: kind, Source: source, Err: err}
}

// RecoverableKind classifies a Recoverable error by cause.
type RecoverableKind string

const (
	// RecoverableSemver is returned for a malformed semver version/range.
	RecoverableSemver RecoverableKind = "semver"
	// RecoverableCompile is returned for a plugin or module compile failure.
	RecoverableCompile RecoverableKind = "compile"
	// RecoverableMissingEntry is returned when the requested entry function
	// is not exported by the module.
	RecoverableMissingEntry RecoverableKind = "missing-entry"
	// RecoverableRegistryMiss is returned when a name-registry lookup finds
	// no entry satisfying the query.
	RecoverableRegistryMiss RecoverableKind = "registry-miss"
	// RecoverableInstantiate is returned when module instantiation against
	// an environment's linker fails.
	RecoverableInstantiate RecoverableKind = "instantiate"
)

// Recoverable is a domain error delivered to the guest as a status code plus
// an error-resource ID; it never unwinds the guest invocation.
type Recoverable struct {
	Kind RecoverableKind
	Err  error
}

func (r *Recoverable) Error() string {
	return fmt.Sprintf("recoverable[%s]: %v", r.Kind, r.Err)
}

func (r *Recoverable) Unwrap() error {
	return r.Err
}

// NewRecoverable wraps err as a Recoverable of the given Kind.
func NewRecoverable(kind RecoverableKind, err error) *Recoverable {
	return &Recoverable{Kind: kind, Err: err}
}

// ExitReason is the cause recorded when a process terminates, propagated to
// linked peers via a LinkDied signal.
type ExitReason string

const (
	// ExitNormal means the Wasm entry function returned without error.
	ExitNormal ExitReason = "normal"
	// ExitKilled means the process received a Kill signal.
	ExitKilled ExitReason = "killed"
	// ExitTrapped means the process's Wasm invocation raised a Trap.
	ExitTrapped ExitReason = "trapped"
	// ExitFuelExhausted means the process exhausted its fuel budget.
	ExitFuelExhausted ExitReason = "fuel-exhausted"
	// ExitKilledByLink means the process died because a link it did not
	// buffer (die_when_link_dies=true) reported LinkDied.
	ExitKilledByLink ExitReason = "killed-by-link"
)

// ExitError pairs an ExitReason with the underlying cause, if any.
type ExitError struct {
	Reason ExitReason
	Err    error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("process exited (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("process exited (%s)", e.Reason)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
