package objstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sthobeck/lit/internal/lineio"
)

func TestDiffSerializeDeserializeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, lineio.WriteLines(oldPath, []string{"a", "b"}))
	require.NoError(t, lineio.WriteLines(newPath, []string{"a", "b", "c"}))

	d, err := NewFileModified(oldPath, newPath)
	require.NoError(t, err)

	got, err := DeserializeDiff(SerializeDiff(d))
	require.NoError(t, err)
	assert.Equal(t, d.Kind, got.Kind)
	assert.Equal(t, d.StoredPath, got.StoredPath)
	assert.Equal(t, d.NewPath, got.NewPath)
	assert.Equal(t, d.Crc, got.Crc)
	assert.Equal(t, d.Lines, got.Lines)
}

func TestFolderDiffSerializeDeserializeRoundTrip(t *testing.T) {
	d := NewFolderNew("some/folder")
	got, err := DeserializeDiff(SerializeDiff(d))
	require.NoError(t, err)
	assert.Equal(t, FolderNew, got.Kind)
	assert.Equal(t, "some/folder", got.StoredPath)
	assert.Equal(t, d.Crc, got.Crc)
	assert.Empty(t, got.Lines)
}

func TestDiffFanoutPathIsDecimalNotHex(t *testing.T) {
	dir, name := DiffFanoutPath(7)
	assert.Equal(t, "00", dir)
	assert.Equal(t, "07", name)
}

func TestStoreWriteReadDiff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, lineio.WriteLines(path, []string{"one", "two"}))

	d, err := NewFileNew(path)
	require.NoError(t, err)

	s := New(dir)
	require.NoError(t, s.WriteDiff(d))

	got, err := s.ReadDiff(d.Crc)
	require.NoError(t, err)
	assert.Equal(t, d.Lines, got.Lines)
	assert.Equal(t, d.Kind, got.Kind)
}

func TestFingerprintDiffersByKind(t *testing.T) {
	d1 := NewFolderNew("x")
	d2 := NewFolderDeleted("x")
	assert.NotEqual(t, d1.Crc, d2.Crc)
}
