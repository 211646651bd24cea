package inw

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestWalkNoRecurse(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"))
	writeFile(t, filepath.Join(dir, "sub", "b.txt"))

	inodes, err := Walk(dir, NoRecurse)
	require.NoError(t, err)
	require.Len(t, inodes, 2)

	names := map[string]Kind{}
	for _, n := range inodes {
		names[n.Name] = n.Kind
	}
	assert.Equal(t, File, names["a.txt"])
	assert.Equal(t, Folder, names["sub"])
}

func TestWalkRecursePreOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"))
	writeFile(t, filepath.Join(dir, "sub", "b.txt"))

	inodes, err := Walk(dir, Recurse)
	require.NoError(t, err)
	require.Len(t, inodes, 3)

	// sub must appear before b.txt (pre-order: parent before children).
	subIdx, bIdx := -1, -1
	for i, n := range inodes {
		if n.Name == "sub" {
			subIdx = i
		}
		if n.Name == "b.txt" {
			bIdx = i
		}
	}
	assert.Less(t, subIdx, bIdx)
}

func TestWalkMissingDirReturnsEmpty(t *testing.T) {
	inodes, err := Walk(filepath.Join(t.TempDir(), "nope"), NoRecurse)
	require.NoError(t, err)
	assert.Empty(t, inodes)
}

func TestTreeAddContainsRemove(t *testing.T) {
	tr := NewTree()
	tr.AddPath("a/b/c.txt")
	tr.AddPath("a/d.txt")

	assert.True(t, tr.Contains("a/b/c.txt"))
	assert.True(t, tr.Contains("a/d.txt"))
	assert.False(t, tr.Contains("a/b"))
	assert.False(t, tr.Contains("missing"))

	tr.RemovePath("a/d.txt")
	assert.False(t, tr.Contains("a/d.txt"))
	assert.True(t, tr.Contains("a/b/c.txt"))
}
