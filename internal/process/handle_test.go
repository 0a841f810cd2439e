package process

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleSendDeliversToMailbox(t *testing.T) {
	t.Parallel()

	mb := NewSignalMailbox()
	h := NewHandle(uuid.New(), mb)

	h.Send(KillSignal())

	sig, err := mb.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SignalKill, sig.Kind)
}

func TestHandleIDIsStableAfterMailboxIsCollected(t *testing.T) {
	id := uuid.New()
	func() {
		mb := NewSignalMailbox()
		h := NewHandle(id, mb)
		assert.Equal(t, id, h.ID())
		runtime.KeepAlive(mb)
	}()

	// The mailbox above may or may not be collected by the time we get
	// here; what invariant 2 (§3) actually guarantees is that the ID never
	// changes and Send on a collected target is a harmless no-op, not that
	// collection is deterministic within a single test.
	h := NewHandle(id, nil)
	assert.Equal(t, id, h.ID())
	assert.False(t, h.Alive())
	assert.NotPanics(t, func() { h.Send(KillSignal()) })
}

func TestHandleAliveFalseImmediatelyAfterClose(t *testing.T) {
	t.Parallel()

	mb := NewSignalMailbox()
	h := NewHandle(uuid.New(), mb)
	require.True(t, h.Alive())

	mb.Close()

	// No GC has run and mb is still strongly reachable via this local, so the
	// weak pointer alone would still resolve; Alive must also consult Closed.
	assert.False(t, h.Alive())
	runtime.KeepAlive(mb)
}

func TestHandleSendAfterMailboxCloseIsNoop(t *testing.T) {
	t.Parallel()

	mb := NewSignalMailbox()
	h := NewHandle(uuid.New(), mb)
	mb.Close()

	h.Send(KillSignal())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := mb.Recv(ctx)
	assert.ErrorIs(t, err, ErrMailboxClosed)
}
