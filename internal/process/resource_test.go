package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceTableAddGetRemove(t *testing.T) {
	t.Parallel()

	table := NewResourceTable[string]()
	id := table.Add("hello")

	v, ok := table.Get(id)
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	removed, ok := table.Remove(id)
	require.True(t, ok)
	assert.Equal(t, "hello", removed)

	_, ok = table.Get(id)
	assert.False(t, ok)
}

func TestResourceTableIDsNeverCollideWhileLive(t *testing.T) {
	t.Parallel()

	table := NewResourceTable[int]()
	a := table.Add(1)
	b := table.Add(2)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, table.Len())
}

func TestResourceTableMutate(t *testing.T) {
	t.Parallel()

	table := NewResourceTable[int]()
	id := table.Add(1)

	ok := table.Mutate(id, func(v int) int { return v + 41 })
	require.True(t, ok)

	v, _ := table.Get(id)
	assert.Equal(t, 42, v)

	ok = table.Mutate(id+1, func(v int) int { return v })
	assert.False(t, ok)
}

func TestResourceTableRemoveUnknown(t *testing.T) {
	t.Parallel()

	table := NewResourceTable[int]()
	_, ok := table.Remove(999)
	assert.False(t, ok)
}
