package shelf

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sthobeck/lit/internal/objstore"
)

func TestShelveRequiresInitializedArea(t *testing.T) {
	dir := t.TempDir()
	s := objstore.New(dir)
	d := objstore.NewFolderNew("x")
	err := Shelve(s, "origin", d)
	assert.Error(t, err)
}

func TestShelveCollectDrain(t *testing.T) {
	dir := t.TempDir()
	s := objstore.New(dir)
	require.NoError(t, Init(s, "origin"))

	d1 := objstore.NewFolderNew("a")
	d2 := objstore.NewFolderNew("b")
	require.NoError(t, Shelve(s, "origin", d1))
	require.NoError(t, Shelve(s, "origin", d2))

	inodes, err := Collect(s, "origin")
	require.NoError(t, err)
	assert.Len(t, inodes, 2)

	diffs, err := Drain(s, "origin")
	require.NoError(t, err)
	assert.Len(t, diffs, 2)

	_, err = os.Stat(s.ShelvedDir("origin"))
	assert.True(t, os.IsNotExist(err))
}

func TestDrainEmptyAreaStillRemovesDir(t *testing.T) {
	dir := t.TempDir()
	s := objstore.New(dir)
	require.NoError(t, Init(s, "origin"))

	diffs, err := Drain(s, "origin")
	require.NoError(t, err)
	assert.Empty(t, diffs)

	_, err = os.Stat(s.ShelvedDir("origin"))
	assert.True(t, os.IsNotExist(err))
}
