package objstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchSha1IsNameDerived(t *testing.T) {
	b1 := NewBranch("main")
	b2 := NewBranch("main")
	b3 := NewBranch("feature")
	assert.Equal(t, b1.Sha1, b2.Sha1)
	assert.NotEqual(t, b1.Sha1, b3.Sha1)
}

func TestStoreWriteReadBranch(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	d := NewFolderNew("root")
	c, err := NewCommit("init", []*Diff{d})
	require.NoError(t, err)

	b := NewBranch("main")
	b.Commits = append(b.Commits, c)
	b.Head = 0

	require.NoError(t, s.WriteBranch(b))

	got, err := s.ReadBranch("main")
	require.NoError(t, err)
	assert.Equal(t, b.Name, got.Name)
	assert.Equal(t, b.Head, got.Head)
	require.Len(t, got.Commits, 1)
	assert.Equal(t, c.Sha1, got.Commits[0].Sha1)
}

func TestListAndDeleteBranches(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.WriteBranch(NewBranch("main")))
	require.NoError(t, s.WriteBranch(NewBranch("feature")))

	names, err := s.ListBranches()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main", "feature"}, names)

	require.NoError(t, s.DeleteBranch("feature"))
	names, err = s.ListBranches()
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, names)
}
