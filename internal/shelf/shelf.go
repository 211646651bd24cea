// Package shelf implements the branch-local shelving area: a staging
// directory diffs accumulate in before being drained into a commit.
package shelf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/inw"
	"github.com/sthobeck/lit/internal/lineio"
	"github.com/sthobeck/lit/internal/objstore"
)

func diffFileName(crc hashutil.Crc32) string {
	return fmt.Sprintf("%s.diff", crc.Decimal())
}

// Init creates the shelving area for branch, if it doesn't already
// exist. Called by branch creation so Shelve's "area must exist"
// precondition always holds for a known branch.
func Init(s *objstore.Store, branch string) error {
	if err := os.MkdirAll(s.ShelvedDir(branch), lineio.DirPerm); err != nil {
		return fmt.Errorf("shelf: init shelving area for %q: %w", branch, err)
	}
	return nil
}

// Shelve writes d into branch's shelving area. The area must already
// exist; its absence indicates repository corruption, not an ordinary
// error, so Shelve reports it distinctly.
func Shelve(s *objstore.Store, branch string, d *objstore.Diff) error {
	area := s.ShelvedDir(branch)
	if _, err := os.Stat(area); err != nil {
		return fmt.Errorf("shelf: shelving area for %q missing (repository corruption): %w", branch, err)
	}
	path := filepath.Join(area, diffFileName(d.Crc))
	if err := os.WriteFile(path, objstore.SerializeDiff(d), 0644); err != nil {
		return fmt.Errorf("shelf: write shelved diff: %w", err)
	}
	return nil
}

// Collect returns the inodes currently staged in branch's shelving area,
// non-recursively.
func Collect(s *objstore.Store, branch string) ([]inw.Inode, error) {
	return inw.Walk(s.ShelvedDir(branch), inw.NoRecurse)
}

// Drain reads every shelved diff for branch, in a deterministic (name-
// sorted) order, removes each file, then removes the now-empty shelving
// directory, returning the diffs for the caller to fold into a new
// commit.
func Drain(s *objstore.Store, branch string) ([]*objstore.Diff, error) {
	area := s.ShelvedDir(branch)
	inodes, err := inw.Walk(area, inw.NoRecurse)
	if err != nil {
		return nil, fmt.Errorf("shelf: drain %q: %w", branch, err)
	}
	sort.Slice(inodes, func(i, j int) bool { return inodes[i].Name < inodes[j].Name })

	diffs := make([]*objstore.Diff, 0, len(inodes))
	for _, ino := range inodes {
		if ino.Kind != inw.File {
			continue
		}
		data, err := os.ReadFile(ino.Path)
		if err != nil {
			return nil, fmt.Errorf("shelf: read shelved diff %s: %w", ino.Path, err)
		}
		d, err := objstore.DeserializeDiff(data)
		if err != nil {
			return nil, fmt.Errorf("shelf: parse shelved diff %s: %w", ino.Path, err)
		}
		diffs = append(diffs, d)
		if err := os.Remove(ino.Path); err != nil {
			return nil, fmt.Errorf("shelf: remove shelved diff %s: %w", ino.Path, err)
		}
	}
	if err := os.Remove(area); err != nil {
		return nil, fmt.Errorf("shelf: remove shelving area %q: %w", branch, err)
	}
	return diffs, nil
}
