package process

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsertAndGetByRange(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	handleV1 := NewHandle(uuid.New(), NewSignalMailbox())
	handleV2 := NewHandle(uuid.New(), NewSignalMailbox())

	require.NoError(t, reg.Insert("worker", "1.0.0", handleV1))
	require.NoError(t, reg.Insert("worker", "1.2.0", handleV2))

	got, err := reg.Get("worker", "^1.0.0")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, handleV2.ID(), got.ID(), "range query resolves to the highest matching version")
}

func TestRegistryGetNoMatch(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Insert("worker", "1.0.0", NewHandle(uuid.New(), NewSignalMailbox())))

	got, err := reg.Get("worker", "^2.0.0")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRegistryInsertRejectsMalformedVersion(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := reg.Insert("worker", "not-a-semver", NewHandle(uuid.New(), NewSignalMailbox()))
	assert.Error(t, err)
}

func TestRegistryGetRejectsMalformedRange(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	_, err := reg.Get("worker", "not-a-range[[")
	assert.Error(t, err)
}

func TestRegistryRemove(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	h := NewHandle(uuid.New(), NewSignalMailbox())
	require.NoError(t, reg.Insert("worker", "1.0.0", h))

	prior, err := reg.Remove("worker", "1.0.0")
	require.NoError(t, err)
	require.NotNil(t, prior)
	assert.Equal(t, h.ID(), prior.ID())

	again, err := reg.Remove("worker", "1.0.0")
	require.NoError(t, err)
	assert.Nil(t, again)

	got, err := reg.Get("worker", "*")
	require.NoError(t, err)
	assert.Nil(t, got, "no entry may resolve once the only version is removed")
}
