package objstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitSha1Deterministic(t *testing.T) {
	d := NewFolderNew("a")
	c1, err := NewCommit("add folder a", []*Diff{d})
	require.NoError(t, err)
	c1.Timestamp = "2024-01-01T00:00:00Z"
	c1.RawTime = 1704067200
	c1.Sha1 = c1.computeSha1()

	c2, err := NewCommit("add folder a", []*Diff{d})
	require.NoError(t, err)
	c2.Timestamp = c1.Timestamp
	c2.RawTime = c1.RawTime
	c2.Sha1 = c2.computeSha1()

	assert.Equal(t, c1.Sha1, c2.Sha1)
}

func TestCommitRejectsMultilineMessage(t *testing.T) {
	_, err := NewCommit("bad\nmessage", nil)
	assert.Error(t, err)
}

func TestStoreWriteReadCommit(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	d := NewFolderNew("docs")
	c, err := NewCommit("create docs folder", []*Diff{d})
	require.NoError(t, err)

	require.NoError(t, s.WriteCommit(c))

	got, err := s.ReadCommit(c.Sha1)
	require.NoError(t, err)
	assert.Equal(t, c.Message, got.Message)
	assert.Equal(t, c.RawTime, got.RawTime)
	require.Len(t, got.Changes, 1)
	assert.Equal(t, d.Kind, got.Changes[0].Kind)
	assert.Equal(t, d.StoredPath, got.Changes[0].StoredPath)
}
