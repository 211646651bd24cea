// Package tagstore implements lit's tags: hash-only back-references
// from a name to a commit and the branch it was created from.
package tagstore

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/lineio"
	"github.com/sthobeck/lit/internal/objstore"
)

// Tag names a specific commit on a specific branch.
type Tag struct {
	Name       string
	CommitHash hashutil.Sha1
	BranchHash hashutil.Sha1
}

// NewTag builds a tag recording commit on branch under name.
func NewTag(branch *objstore.Branch, commit *objstore.Commit, name string) *Tag {
	return &Tag{
		Name:       name,
		CommitHash: commit.Sha1,
		BranchHash: branch.Sha1,
	}
}

// Serialize renders a tag in lit's on-disk format:
//
//	msg:<name>\ncommit:<hex>\nbranch:<hex>\n
func Serialize(t *Tag) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "msg:%s\n", t.Name)
	fmt.Fprintf(&buf, "commit:%s\n", t.CommitHash.Hex())
	fmt.Fprintf(&buf, "branch:%s\n", t.BranchHash.Hex())
	return buf.Bytes()
}

// Deserialize parses the format Serialize produces.
func Deserialize(data []byte) (*Tag, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	t := &Tag{}

	readField := func(prefix string) (string, error) {
		if !scanner.Scan() {
			return "", fmt.Errorf("tagstore: truncated tag, expected %q line", prefix)
		}
		line := scanner.Text()
		if !strings.HasPrefix(line, prefix) {
			return "", fmt.Errorf("tagstore: expected tag header %q, got %q", prefix, line)
		}
		return strings.TrimPrefix(line, prefix), nil
	}

	var err error
	t.Name, err = readField("msg:")
	if err != nil {
		return nil, err
	}
	commitStr, err := readField("commit:")
	if err != nil {
		return nil, err
	}
	t.CommitHash, err = hashutil.Sha1FromHex(commitStr)
	if err != nil {
		return nil, fmt.Errorf("tagstore: invalid tag commit hash: %w", err)
	}
	branchStr, err := readField("branch:")
	if err != nil {
		return nil, err
	}
	t.BranchHash, err = hashutil.Sha1FromHex(branchStr)
	if err != nil {
		return nil, fmt.Errorf("tagstore: invalid tag branch hash: %w", err)
	}
	return t, nil
}

func tagPath(s *objstore.Store, name string) string {
	return filepath.Join(s.TagsDir(), name)
}

// Write persists t at .lit/refs/tags/<name>.
func Write(s *objstore.Store, t *Tag) error {
	path := tagPath(s, t.Name)
	if err := os.MkdirAll(filepath.Dir(path), lineio.DirPerm); err != nil {
		return fmt.Errorf("tagstore: create refs/tags dir: %w", err)
	}
	if err := os.WriteFile(path, Serialize(t), 0644); err != nil {
		return fmt.Errorf("tagstore: write tag %s: %w", path, err)
	}
	return nil
}

// ReadAll walks .lit/refs/tags, parsing every file into a Tag.
func ReadAll(s *objstore.Store) ([]*Tag, error) {
	entries, err := os.ReadDir(s.TagsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("tagstore: list tags: %w", err)
	}
	tags := make([]*Tag, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.TagsDir(), e.Name()))
		if err != nil {
			return nil, fmt.Errorf("tagstore: read tag %s: %w", e.Name(), err)
		}
		t, err := Deserialize(data)
		if err != nil {
			return nil, fmt.Errorf("tagstore: parse tag %s: %w", e.Name(), err)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// Delete removes the named tag's ref file.
func Delete(s *objstore.Store, name string) error {
	if err := os.Remove(tagPath(s, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("tagstore: delete tag %s: %w", name, err)
	}
	return nil
}

// Filter returns the subset of tags whose branch hash equals branchHash.
func Filter(tags []*Tag, branchHash hashutil.Sha1) []*Tag {
	out := make([]*Tag, 0, len(tags))
	for _, t := range tags {
		if t.BranchHash == branchHash {
			out = append(out, t)
		}
	}
	return out
}
