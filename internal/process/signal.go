package process

import (
	"github.com/google/uuid"
	"github.com/lunatic-rt/lunatic-go/internal/trap"
)

// LinkTag is an optional tag carried on a Link signal and echoed back on the
// LinkDied notification it eventually produces. A nil tag means "no tag
// requested" (wire value 0, per the link-tag convention in §6).
type LinkTag = *int64

// Signal is a tagged control event delivered through a process's signal
// mailbox. Kind selects the variant; only the fields that variant uses are
// meaningful.
type Signal struct {
	Kind SignalKind

	// Link (Tag, Peer) / Unlink (Peer) / LinkDied (Tag)
	Tag  LinkTag
	Peer *Handle

	// DieWhenLinkDies
	Flag bool

	// LinkDied
	PeerID uuid.UUID
	Reason trap.ExitReason

	// Message
	Payload any
}

// SignalKind discriminates Signal's variants.
type SignalKind int

const (
	// SignalLink requests that peer be added to the recipient's links, with
	// an optional tag carried on any future LinkDied.
	SignalLink SignalKind = iota
	// SignalUnlink removes peer from the recipient's links.
	SignalUnlink
	// SignalKill terminates the recipient immediately.
	SignalKill
	// SignalDieWhenLinkDies toggles the recipient's die_when_link_dies flag.
	SignalDieWhenLinkDies
	// SignalLinkDied notifies the recipient that a linked peer exited.
	SignalLinkDied
	// SignalMessage enqueues an in-band payload onto the recipient's message
	// mailbox; delivered as a Signal so ordering against Link/Kill is FIFO.
	SignalMessage
)

// LinkSignal builds a Link signal.
func LinkSignal(tag LinkTag, peer *Handle) Signal {
	return Signal{Kind: SignalLink, Tag: tag, Peer: peer}
}

// UnlinkSignal builds an UnLink signal.
func UnlinkSignal(peer *Handle) Signal {
	return Signal{Kind: SignalUnlink, Peer: peer}
}

// KillSignal builds a Kill signal.
func KillSignal() Signal {
	return Signal{Kind: SignalKill}
}

// DieWhenLinkDiesSignal builds a DieWhenLinkDies signal.
func DieWhenLinkDiesSignal(flag bool) Signal {
	return Signal{Kind: SignalDieWhenLinkDies, Flag: flag}
}

// LinkDiedSignal builds a LinkDied signal.
func LinkDiedSignal(peerID uuid.UUID, tag LinkTag, reason trap.ExitReason) Signal {
	return Signal{Kind: SignalLinkDied, PeerID: peerID, Tag: tag, Reason: reason}
}

// MessageSignal builds a Message signal carrying payload.
func MessageSignal(payload any) Signal {
	return Signal{Kind: SignalMessage, Payload: payload}
}
