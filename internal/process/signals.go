package process

import (
	"context"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
)

// drainSignals implements the signal-handling rules in §4.H. It runs until
// ctx is canceled (the entry future finished first, or the fuel clock fired)
// or it decides the process itself must terminate, in which case it cancels
// cancel and reports the reason with terminated=true.
func (p *Process) drainSignals(ctx context.Context, cancel context.CancelFunc) (reason trap.ExitReason, terminated bool) {
	for {
		sig, err := p.signalMailbox.Recv(ctx)
		if err != nil {
			return "", false
		}

		switch sig.Kind {
		case SignalLink:
			p.handleLink(sig.Tag, sig.Peer)

		case SignalUnlink:
			p.linksMu.Lock()
			delete(p.links, sig.Peer.ID())
			p.linksMu.Unlock()

		case SignalDieWhenLinkDies:
			p.dieWhenLinkDies.Store(sig.Flag)

		case SignalKill:
			p.killed.Store(true)
			cancel()
			return trap.ExitKilled, true

		case SignalLinkDied:
			if p.dieWhenLinkDies.Load() {
				cancel()
				return trap.ExitKilledByLink, true
			}
			p.messageMailbox.Enqueue(sig)

		case SignalMessage:
			p.messageMailbox.Enqueue(sig.Payload)
		}
	}
}

// handleLink adds peer to links under tag, unless already present; a link
// to an already-dead peer schedules an immediate self LinkDied, per §4.H.
func (p *Process) handleLink(tag LinkTag, peer *Handle) {
	p.linksMu.Lock()
	_, exists := p.links[peer.ID()]
	if !exists {
		p.links[peer.ID()] = link{tag: tag, peer: peer}
	}
	p.linksMu.Unlock()

	if !exists && !peer.Alive() {
		p.signalMailbox.Send(LinkDiedSignal(peer.ID(), tag, trap.ExitNormal))
	}
}

// terminate runs once, after run's merged streams settle on reason: it
// notifies every linked peer and closes both mailboxes so any Handle still
// addressing this process becomes a silent no-op (invariant 2, §3).
func (p *Process) terminate(reason trap.ExitReason) {
	p.linksMu.Lock()
	peers := make([]link, 0, len(p.links))
	for _, l := range p.links {
		peers = append(peers, l)
	}
	p.linksMu.Unlock()

	for _, l := range peers {
		l.peer.Send(LinkDiedSignal(p.id, l.tag, reason))
	}

	p.signalMailbox.Close()
	p.messageMailbox.Close()
}
