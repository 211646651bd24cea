package objstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSerializeDeserializeRoundTrip(t *testing.T) {
	idx := &Index{Active: 1, Branches: []string{"main", "feature"}, ReadOnly: true}
	got, err := DeserializeIndex(SerializeIndex(idx))
	require.NoError(t, err)
	assert.Equal(t, idx, got)
}

func TestStoreWriteReadIndex(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	idx := &Index{Active: 0, Branches: []string{"main"}, ReadOnly: false}

	require.NoError(t, s.WriteIndex(idx))
	got, err := s.ReadIndex()
	require.NoError(t, err)
	assert.Equal(t, idx, got)
}

func TestIndexActiveBranch(t *testing.T) {
	idx := &Index{Active: 1, Branches: []string{"main", "feature"}}
	name, err := idx.ActiveBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature", name)

	idx.Active = 5
	_, err = idx.ActiveBranch()
	assert.Error(t, err)
}
