// Package cache implements the object-store scavenger: a mark-and-sweep
// garbage collector over .lit/objects using the branch list as its
// root set.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sthobeck/lit/internal/inw"
	"github.com/sthobeck/lit/internal/objstore"
)

// Report summarises one scavenge pass.
type Report struct {
	RemovedFiles int
	RemovedDirs  int
}

// Scavenge walks .lit/objects recursively, removing any commit or diff
// file not reachable from branches (the root set), then collapsing any
// fan-out directory left holding nothing after a removal.
func Scavenge(s *objstore.Store, branches []*objstore.Branch) (Report, error) {
	referenced := referencedTree(s, branches)

	inodes, err := inw.Walk(s.ObjectsDir(), inw.Recurse)
	if err != nil {
		return Report{}, fmt.Errorf("cache: walk objects: %w", err)
	}

	var report Report
	// Unreferenced files are removed first, in walk order; every
	// directory that held a removed file is then checked once and
	// removed if nothing is left in it.
	touchedDirs := map[string]bool{}
	for _, ino := range inodes {
		if ino.Kind != inw.File {
			continue
		}
		if referenced.Contains(ino.Path) {
			continue
		}
		if err := os.Remove(ino.Path); err != nil {
			return report, fmt.Errorf("cache: remove unreferenced object %s: %w", ino.Path, err)
		}
		report.RemovedFiles++
		touchedDirs[filepath.Dir(ino.Path)] = true
	}

	for dir := range touchedDirs {
		remaining, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return report, fmt.Errorf("cache: inspect fanout dir %s: %w", dir, err)
		}
		if len(remaining) == 0 {
			if err := os.Remove(dir); err != nil {
				return report, fmt.Errorf("cache: remove empty fanout dir %s: %w", dir, err)
			}
			report.RemovedDirs++
		}
	}
	return report, nil
}

// referencedTree computes the root set: every commit's own on-disk
// path, and every diff's on-disk path, for every commit of every
// branch, indexed for Contains lookups during the sweep.
func referencedTree(s *objstore.Store, branches []*objstore.Branch) *inw.Tree {
	referenced := inw.NewTree()
	for _, b := range branches {
		for _, c := range b.Commits {
			referenced.AddPath(s.CommitPath(c.Sha1))
			for _, d := range c.Changes {
				dir, name := objstore.DiffFanoutPath(d.Crc)
				referenced.AddPath(filepath.Join(s.DiffsDir(), dir, name))
			}
		}
	}
	return referenced
}
