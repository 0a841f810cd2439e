package process

import (
	"context"
	"testing"
	"time"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnvironment(t *testing.T) *Environment {
	t.Helper()
	ctx := context.Background()
	env, err := NewEnvironment(ctx, NewConfig(16*1024*1024, 0).Snapshot())
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Release(ctx) })
	return env
}

func TestSchedulerSpawnRootRunsToCompletion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnvironment(t)
	mod, err := env.CreateModule(ctx, buildNoopModule())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mod.Close(ctx) })

	scheduler := NewScheduler(ctx, 0)
	handle, done, err := scheduler.SpawnRoot(ctx, mod, "_start", nil)
	require.NoError(t, err)
	require.NotNil(t, handle)

	select {
	case reason := <-done:
		assert.Equal(t, trap.ExitNormal, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("process never exited")
	}
}

func TestSchedulerSpawnRootMissingEntryIsRecoverable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnvironment(t)
	mod, err := env.CreateModule(ctx, buildNoopModule())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mod.Close(ctx) })

	scheduler := NewScheduler(ctx, 0)
	_, _, err = scheduler.SpawnRoot(ctx, mod, "does_not_exist", nil)
	require.Error(t, err)

	var rec *trap.Recoverable
	require.ErrorAs(t, err, &rec)
	assert.Equal(t, trap.RecoverableMissingEntry, rec.Kind)
}

func TestSchedulerSpawnKilledProcessReportsExitKilled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnvironment(t)
	mod, err := env.CreateModule(ctx, buildNoopModule())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mod.Close(ctx) })

	scheduler := NewScheduler(ctx, 0)
	handle, done, err := scheduler.SpawnRoot(ctx, mod, "_start", nil)
	require.NoError(t, err)

	handle.Send(KillSignal())

	select {
	case reason := <-done:
		assert.Contains(t, []trap.ExitReason{trap.ExitNormal, trap.ExitKilled}, reason,
			"_start already returns immediately, so Kill may race a normal exit")
	case <-time.After(2 * time.Second):
		t.Fatal("process never exited")
	}
}
