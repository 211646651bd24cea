// Package objstore implements lit's on-disk content-addressable layout:
// diffs, commits, branches, and the repository index under .lit/. Diffs
// fan out by the first two decimal digits of their CRC-32 and commits by
// the first two hex digits of their SHA-1; branch refs and the index are
// not fanned out.
package objstore

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/lineio"
)

// DiffKind differentiates the six kinds of recorded filesystem change.
type DiffKind int

const (
	DiffNone DiffKind = iota
	FileNew
	FileDeleted
	FileModified
	FolderNew
	FolderDeleted
	FolderModified
)

func (k DiffKind) isFolder() bool {
	return k == FolderNew || k == FolderDeleted || k == FolderModified
}

// String renders a DiffKind for display, e.g. in verbose log output.
func (k DiffKind) String() string {
	names := [...]string{"none", "file-new", "file-deleted", "file-modified", "folder-new", "folder-deleted", "folder-modified"}
	if int(k) < 0 || int(k) >= len(names) {
		return "unknown"
	}
	return names[k]
}

// Diff is a recorded change to one filesystem entry.
type Diff struct {
	Kind       DiffKind
	StoredPath string
	NewPath    string
	Lines      []string
	Crc        hashutil.Crc32
}

// fingerprint computes the CRC-32 fingerprint of a diff's own serialised
// content: its annotated lines, followed by a header of kind/stored/new
// path and the current wall-clock second. Two diffs built at different
// instants with identical content get different fingerprints by design —
// it is a content-addressable tie-breaker, not a content hash.
func fingerprint(kind DiffKind, storedPath, newPath string, lines []string, now time.Time) hashutil.Crc32 {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "type:%d\nstored:%s\nnew:%s\nmtime:%d\n", kind, storedPath, newPath, now.Unix())
	return hashutil.ComputeCrc32(buf.Bytes())
}

// NewFileNew builds a diff recording the creation of path; every line is
// prefixed "+ ".
func NewFileNew(path string) (*Diff, error) {
	lines, err := lineio.ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("objstore: file-new %s: %w", path, err)
	}
	annotated := make([]string, len(lines))
	for i, l := range lines {
		annotated[i] = lineio.PrefixAdded + l
	}
	now := time.Now()
	return &Diff{
		Kind:       FileNew,
		StoredPath: path,
		NewPath:    path,
		Lines:      annotated,
		Crc:        fingerprint(FileNew, path, path, annotated, now),
	}, nil
}

// NewFileDeleted builds a diff recording the removal of path; every line
// is prefixed "- ".
func NewFileDeleted(path string) (*Diff, error) {
	lines, err := lineio.ReadLines(path)
	if err != nil {
		return nil, fmt.Errorf("objstore: file-deleted %s: %w", path, err)
	}
	annotated := make([]string, len(lines))
	for i, l := range lines {
		annotated[i] = lineio.PrefixRemoved + l
	}
	now := time.Now()
	return &Diff{
		Kind:       FileDeleted,
		StoredPath: path,
		NewPath:    path,
		Lines:      annotated,
		Crc:        fingerprint(FileDeleted, path, path, annotated, now),
	}, nil
}

// NewFileModified builds an LCS diff between oldPath's content and
// newPath's content, recording both paths (distinct when this is a
// rename).
func NewFileModified(oldPath, newPath string) (*Diff, error) {
	oldLines, err := lineio.ReadLines(oldPath)
	if err != nil {
		return nil, fmt.Errorf("objstore: file-modified old %s: %w", oldPath, err)
	}
	newLines, err := lineio.ReadLines(newPath)
	if err != nil {
		return nil, fmt.Errorf("objstore: file-modified new %s: %w", newPath, err)
	}
	annotated := lineio.Diff(oldLines, newLines)
	now := time.Now()
	return &Diff{
		Kind:       FileModified,
		StoredPath: oldPath,
		NewPath:    newPath,
		Lines:      annotated,
		Crc:        fingerprint(FileModified, oldPath, newPath, annotated, now),
	}, nil
}

func newFolderDiff(kind DiffKind, storedPath, newPath string) *Diff {
	now := time.Now()
	return &Diff{
		Kind:       kind,
		StoredPath: storedPath,
		NewPath:    newPath,
		Lines:      nil,
		Crc:        fingerprint(kind, storedPath, newPath, nil, now),
	}
}

// NewFolderNew builds an empty-lines diff recording folder creation.
func NewFolderNew(path string) *Diff {
	return newFolderDiff(FolderNew, path, path)
}

// NewFolderDeleted builds an empty-lines diff recording folder removal.
func NewFolderDeleted(path string) *Diff {
	return newFolderDiff(FolderDeleted, path, path)
}

// NewFolderModified builds an empty-lines diff recording a folder rename.
func NewFolderModified(oldPath, newPath string) *Diff {
	return newFolderDiff(FolderModified, oldPath, newPath)
}

// SerializeDiff renders a diff in lit's on-disk text format:
//
//	type:<int>\nstored:<path>\nnew:<path>\ncrc32:<uint>\n\n<line>\n...
//
// Folder-kind (and DiffNone) diffs stop after the header.
func SerializeDiff(d *Diff) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "type:%d\nstored:%s\nnew:%s\ncrc32:%d\n\n", d.Kind, d.StoredPath, d.NewPath, uint32(d.Crc))
	if d.Kind == DiffNone || d.Kind.isFolder() {
		return buf.Bytes()
	}
	for _, l := range d.Lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// DeserializeDiff parses the format SerializeDiff produces.
func DeserializeDiff(data []byte) (*Diff, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	d := &Diff{}

	readField := func(prefix string) (string, error) {
		if !scanner.Scan() {
			return "", fmt.Errorf("objstore: truncated diff, expected %q line", prefix)
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, prefix) {
			return "", fmt.Errorf("objstore: expected diff header %q, got %q", prefix, line)
		}
		return strings.TrimPrefix(line, prefix), nil
	}

	typeStr, err := readField("type:")
	if err != nil {
		return nil, err
	}
	kindInt, err := strconv.Atoi(typeStr)
	if err != nil {
		return nil, fmt.Errorf("objstore: invalid diff type %q: %w", typeStr, err)
	}
	d.Kind = DiffKind(kindInt)

	d.StoredPath, err = readField("stored:")
	if err != nil {
		return nil, err
	}
	d.NewPath, err = readField("new:")
	if err != nil {
		return nil, err
	}
	crcStr, err := readField("crc32:")
	if err != nil {
		return nil, err
	}
	crcVal, err := strconv.ParseUint(crcStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("objstore: invalid diff crc32 %q: %w", crcStr, err)
	}
	d.Crc = hashutil.Crc32(crcVal)

	if d.Kind == DiffNone || d.Kind.isFolder() {
		return d, nil
	}

	// Blank separator line, then each annotated line verbatim.
	if !scanner.Scan() {
		return d, nil
	}
	for scanner.Scan() {
		d.Lines = append(d.Lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objstore: read diff lines: %w", err)
	}
	return d, nil
}

// DiffFanoutPath returns the two path components (directory, file) of a
// diff's content-addressed location under .lit/objects/diffs, using the
// CRC-32 decimal encoding (zero-padded to at least 4 digits): despite
// the on-disk field's historical "hex" name, the fan-out prefix is the
// first two DECIMAL digits, not hex.
func DiffFanoutPath(crc hashutil.Crc32) (dir, name string) {
	dec := crc.Decimal()
	return dec[:2], dec[2:]
}

func (s *Store) diffPath(crc hashutil.Crc32) string {
	dir, name := DiffFanoutPath(crc)
	return filepath.Join(s.diffsDir(), dir, name)
}

// WriteDiff persists d at its content-addressed path, creating the
// fan-out directory as needed.
func (s *Store) WriteDiff(d *Diff) error {
	path := s.diffPath(d.Crc)
	if err := os.MkdirAll(filepath.Dir(path), lineio.DirPerm); err != nil {
		return fmt.Errorf("objstore: create diff fanout dir: %w", err)
	}
	if err := os.WriteFile(path, SerializeDiff(d), 0644); err != nil {
		return fmt.Errorf("objstore: write diff %s: %w", path, err)
	}
	return nil
}

// ReadDiff loads the diff stored under the given CRC-32 fingerprint.
func (s *Store) ReadDiff(crc hashutil.Crc32) (*Diff, error) {
	path := s.diffPath(crc)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("objstore: read diff %s: %w", path, err)
	}
	d, err := DeserializeDiff(data)
	if err != nil {
		return nil, fmt.Errorf("objstore: parse diff %s: %w", path, err)
	}
	return d, nil
}
