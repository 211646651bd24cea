package tagstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sthobeck/lit/internal/objstore"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	b := objstore.NewBranch("origin")
	c, err := objstore.NewCommit("init", nil)
	require.NoError(t, err)
	tag := NewTag(b, c, "v1.0")

	got, err := Deserialize(Serialize(tag))
	require.NoError(t, err)
	assert.Equal(t, tag, got)
}

func TestWriteReadAllAndFilter(t *testing.T) {
	dir := t.TempDir()
	s := objstore.New(dir)

	b1 := objstore.NewBranch("origin")
	b2 := objstore.NewBranch("feature")
	c, err := objstore.NewCommit("init", nil)
	require.NoError(t, err)

	t1 := NewTag(b1, c, "v1")
	t2 := NewTag(b2, c, "v2")
	require.NoError(t, Write(s, t1))
	require.NoError(t, Write(s, t2))

	all, err := ReadAll(s)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyB1 := Filter(all, b1.Sha1)
	require.Len(t, onlyB1, 1)
	assert.Equal(t, "v1", onlyB1[0].Name)

	require.NoError(t, Delete(s, "v1"))
	all, err = ReadAll(s)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
