package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalMailboxFIFO(t *testing.T) {
	t.Parallel()

	mb := NewSignalMailbox()
	mb.Send(KillSignal())
	mb.Send(DieWhenLinkDiesSignal(false))

	ctx := context.Background()
	first, err := mb.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, SignalKill, first.Kind)

	second, err := mb.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, SignalDieWhenLinkDies, second.Kind)
}

func TestSignalMailboxSendAfterCloseIsSilent(t *testing.T) {
	t.Parallel()

	mb := NewSignalMailbox()
	mb.Close()
	mb.Send(KillSignal())

	_, err := mb.Recv(context.Background())
	assert.ErrorIs(t, err, ErrMailboxClosed)
}

func TestSignalMailboxRecvBlocksUntilSend(t *testing.T) {
	t.Parallel()

	mb := NewSignalMailbox()
	done := make(chan Signal, 1)
	go func() {
		sig, err := mb.Recv(context.Background())
		require.NoError(t, err)
		done <- sig
	}()

	time.Sleep(10 * time.Millisecond)
	mb.Send(KillSignal())

	select {
	case sig := <-done:
		assert.Equal(t, SignalKill, sig.Kind)
	case <-time.After(time.Second):
		t.Fatal("Recv never woke up after Send")
	}
}

func TestSignalMailboxRecvRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	mb := NewSignalMailbox()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mb.Recv(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMessageMailboxSelectiveReceive(t *testing.T) {
	t.Parallel()

	mb := NewMessageMailbox()
	mb.Enqueue("a")
	mb.Enqueue(42)
	mb.Enqueue("b")

	onlyInts := func(v any) bool { _, ok := v.(int); return ok }
	got, err := mb.Receive(context.Background(), onlyInts)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	// Non-matching entries stay in order for a later, unrestricted receive.
	first, err := mb.Receive(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "a", first)

	second, err := mb.Receive(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "b", second)
}

func TestMessageMailboxCloseDrainsThenErrors(t *testing.T) {
	t.Parallel()

	mb := NewMessageMailbox()
	mb.Enqueue("last")
	mb.Close()

	v, err := mb.Receive(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "last", v)

	_, err = mb.Receive(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMailboxClosed)
}
