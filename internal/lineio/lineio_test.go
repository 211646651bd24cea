package lineio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "file.txt")

	lines := []string{"a", "b", "c"}
	require.NoError(t, WriteLines(path, lines))

	got, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestReadLinesTruncatesLongLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "long.txt")

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	require.NoError(t, WriteLines(path, []string{string(long)}))

	got, err := ReadLines(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0], MaxLineBytes)
}

func TestDiffAppendOnly(t *testing.T) {
	a := []string{"a", "b"}
	b := []string{"a", "b", "c"}
	d := Diff(a, b)
	assert.Equal(t, []string{" a", " b", "+ c"}, d)
}

func TestDiffRemoveOnly(t *testing.T) {
	a := []string{"a", "b", "c"}
	b := []string{"a", "c"}
	d := Diff(a, b)
	assert.Equal(t, []string{" a", "- b", " c"}, d)
}

func TestDiffForwardInverseRoundTrip(t *testing.T) {
	a := []string{"a", "b"}
	b := []string{"a", "c"}
	d := Diff(a, b)
	assert.Equal(t, a, Inverse(d))
	assert.Equal(t, b, Forward(d))
}

func TestDiffTieBreakPrefersRemoveFirst(t *testing.T) {
	// a and b share no common lines: tie-break on equal right/down scores
	// should consume from a (removed) before adding from b.
	a := []string{"x"}
	b := []string{"y"}
	d := Diff(a, b)
	assert.Equal(t, []string{"- x", "+ y"}, d)
}

func TestForwardDropsRemoved(t *testing.T) {
	annotated := []string{" keep", "- gone", "+ added"}
	assert.Equal(t, []string{"keep", "added"}, Forward(annotated))
}

func TestInverseDropsAdded(t *testing.T) {
	annotated := []string{" keep", "- gone", "+ added"}
	assert.Equal(t, []string{"keep", "gone"}, Inverse(annotated))
}
