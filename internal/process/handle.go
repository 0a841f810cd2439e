package process

import (
	"weak"

	"github.com/google/uuid"
)

// Handle addresses a process without holding it alive: it pairs a stable
// UUID with a weak reference to the process's signal mailbox. This breaks
// the natural reference cycle between linked processes (Design Notes,
// §9) - once the owning process exits and its mailbox is collected, Send
// becomes a silent no-op rather than a dangling pointer.
//
// A Handle's ID is valid forever, even after the target exits (invariant 2
// in §3); only Send's delivery is affected by liveness.
type Handle struct {
	id      uuid.UUID
	mailbox weak.Pointer[SignalMailbox]
}

// NewHandle builds a Handle addressing mb, identified by id.
func NewHandle(id uuid.UUID, mb *SignalMailbox) *Handle {
	return &Handle{id: id, mailbox: weak.Make(mb)}
}

// ID returns the target's UUID. Always valid, regardless of liveness.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Send delivers s to the target's signal mailbox. If the target has exited
// and its mailbox has been collected, or the mailbox has been explicitly
// closed, the send is silently dropped.
func (h *Handle) Send(s Signal) {
	if mb := h.mailbox.Value(); mb != nil {
		mb.Send(s)
	}
}

// Alive reports whether the target's mailbox is still reachable and has not
// been closed. Checking Closed alongside the weak pointer matters because Go's
// GC is lazy: a just-exited peer's mailbox is typically still strongly
// reachable (held by other in-flight references) for an indeterminate time
// after terminate() calls Close, so the weak pointer alone would stay
// non-nil long past the point the target actually died. This is what the
// Link signal's "peer already dead" rule in §4.H depends on.
func (h *Handle) Alive() bool {
	mb := h.mailbox.Value()
	return mb != nil && !mb.Closed()
}
