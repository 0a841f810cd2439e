package process

import (
	"context"
	"errors"
	"sync"
)

// ErrMailboxClosed is returned by Recv/Receive once a mailbox has been
// closed and drained.
var ErrMailboxClosed = errors.New("process: mailbox closed")

// SignalMailbox is an unbounded, FIFO signal queue. Sends after Close are
// silently dropped (invariant: a send to a dead process succeeds and is
// ignored) rather than returning an error, matching the "sends to dropped
// mailboxes are ignored" rule in §4.H.
type SignalMailbox struct {
	mu     sync.Mutex
	queue  []Signal
	waitCh chan struct{}
	closed bool
}

// NewSignalMailbox creates an empty, open signal mailbox.
func NewSignalMailbox() *SignalMailbox {
	return &SignalMailbox{waitCh: make(chan struct{})}
}

// Send enqueues s. It is a silent no-op once the mailbox is closed.
func (m *SignalMailbox) Send(s Signal) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, s)
	old := m.waitCh
	m.waitCh = make(chan struct{})
	m.mu.Unlock()
	close(old)
}

// Recv blocks until a signal is available, ctx is done, or the mailbox is
// closed with nothing left to deliver.
func (m *SignalMailbox) Recv(ctx context.Context) (Signal, error) {
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			s := m.queue[0]
			m.queue = m.queue[1:]
			m.mu.Unlock()
			return s, nil
		}
		if m.closed {
			m.mu.Unlock()
			return Signal{}, ErrMailboxClosed
		}
		wait := m.waitCh
		m.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return Signal{}, ctx.Err()
		}
	}
}

// Close marks the mailbox closed; queued signals already delivered stay
// deliverable to a Recv racing the close, but no further Send succeeds.
func (m *SignalMailbox) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	old := m.waitCh
	m.mu.Unlock()
	close(old)
}

// Closed reports whether Close has been called.
func (m *SignalMailbox) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MessageMailbox is an unbounded in-band message queue supporting tagged
// selective receive: Receive scans for the first entry a predicate accepts,
// leaving non-matching entries in place and in order for a later call.
type MessageMailbox struct {
	mu     sync.Mutex
	queue  []any
	waitCh chan struct{}
	closed bool
}

// NewMessageMailbox creates an empty, open message mailbox.
func NewMessageMailbox() *MessageMailbox {
	return &MessageMailbox{waitCh: make(chan struct{})}
}

// Enqueue appends payload to the mailbox.
func (m *MessageMailbox) Enqueue(payload any) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, payload)
	old := m.waitCh
	m.waitCh = make(chan struct{})
	m.mu.Unlock()
	close(old)
}

// Receive blocks until a queued payload satisfies match (nil matches
// anything), ctx is done, or the mailbox is closed and empty. Matching
// entries are removed in place; skipped entries remain queued in order.
func (m *MessageMailbox) Receive(ctx context.Context, match func(any) bool) (any, error) {
	for {
		m.mu.Lock()
		for i, v := range m.queue {
			if match == nil || match(v) {
				m.queue = append(m.queue[:i:i], m.queue[i+1:]...)
				m.mu.Unlock()
				return v, nil
			}
		}
		if m.closed {
			m.mu.Unlock()
			return nil, ErrMailboxClosed
		}
		wait := m.waitCh
		m.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close marks the mailbox closed; a Receive already blocked returns
// ErrMailboxClosed once the queue is drained.
func (m *MessageMailbox) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	old := m.waitCh
	m.mu.Unlock()
	close(old)
}
