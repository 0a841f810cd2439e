package hostcall

import (
	"context"
	"testing"

	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// buildNoopModule hand-encodes a minimal module exporting a one-page
// "memory" and an empty "_start" function, the same fixture shape used by
// internal/process's tests: no .wat toolchain, per SPEC_FULL.md.
func buildNoopModule() []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6d,
		0x01, 0x00, 0x00, 0x00,

		0x01, 0x04,
		0x01,
		0x60, 0x00, 0x00,

		0x03, 0x02,
		0x01, 0x00,

		0x05, 0x03,
		0x01, 0x00, 0x01,

		0x07, 0x13,
		0x02,
		0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
		0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,

		0x0a, 0x04,
		0x01, 0x02, 0x00, 0x0b,
	}
}

func newTestInstance(t *testing.T) (wazero.Runtime, api.Module) {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = rt.Close(ctx) })

	compiled, err := rt.CompileModule(ctx, buildNoopModule())
	require.NoError(t, err)

	instance, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStartFunctions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = instance.Close(ctx) })

	return rt, instance
}

func TestReadWriteStringRoundTrip(t *testing.T) {
	t.Parallel()

	_, mod := newTestInstance(t)

	writeBytes(mod, "test", 0, []byte("hello"))
	assert.Equal(t, "hello", readString(mod, "test", 0, 5))
}

func TestReadBytesOutOfBoundsTraps(t *testing.T) {
	t.Parallel()

	_, mod := newTestInstance(t)

	assert.PanicsWithError(t, trap.New(trap.KindMemoryOOB, "test").Error(), func() {
		readBytes(mod, "test", 1<<20, 1)
	})
}

func TestReadStringInvalidUTF8Traps(t *testing.T) {
	t.Parallel()

	_, mod := newTestInstance(t)
	writeBytes(mod, "test", 0, []byte{0xff, 0xfe})

	assert.PanicsWithValue(t, trap.New(trap.KindInvalidUTF8, "test"), func() {
		readString(mod, "test", 0, 2)
	})
}

func TestWriteUint64AndUUID(t *testing.T) {
	t.Parallel()

	_, mod := newTestInstance(t)

	writeUint64(mod, "test", 0, 0xdeadbeef)
	got, ok := mod.Memory().ReadUint64Le(0)
	require.True(t, ok)
	assert.Equal(t, uint64(0xdeadbeef), got)

	var id [16]byte
	for i := range id {
		id[i] = byte(i)
	}
	writeUUID(mod, "test", 8, id)
	raw, ok := mod.Memory().Read(8, 16)
	require.True(t, ok)
	assert.Equal(t, id[:], raw)
}
