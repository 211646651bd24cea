// Package inw walks a directory tree into a flat sequence of inodes, the
// building block the object store and cache scavenger use to enumerate
// on-disk state.
package inw

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Kind differentiates a file inode from a folder inode.
type Kind int

const (
	File Kind = iota
	Folder
)

func (k Kind) String() string {
	if k == Folder {
		return "folder"
	}
	return "file"
}

// Mode selects non-recursive (direct children only) or recursive
// (depth-first pre-order) traversal.
type Mode int

const (
	NoRecurse Mode = iota
	Recurse
)

// Inode is the transient result of a directory walk: a single filesystem
// entry with its traversal-relative path, leaf name, kind, and mtime.
type Inode struct {
	Path    string
	Name    string
	Kind    Kind
	ModTime time.Time
}

// Walk enumerates the contents of root. In NoRecurse mode only direct
// children are returned; in Recurse mode the walk is depth-first
// pre-order. "." and ".." are always skipped. Symlinks are followed with
// no special handling.
func Walk(root string, mode Mode) ([]Inode, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("inw: read dir %s: %w", root, err)
	}

	out := make([]Inode, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		path := filepath.Join(root, name)

		info, err := os.Stat(path) // os.Stat follows symlinks
		if err != nil {
			return nil, fmt.Errorf("inw: stat %s: %w", path, err)
		}

		kind := File
		if info.IsDir() {
			kind = Folder
		}
		out = append(out, Inode{
			Path:    path,
			Name:    name,
			Kind:    kind,
			ModTime: info.ModTime(),
		})

		if mode == Recurse && kind == Folder {
			children, err := Walk(path, mode)
			if err != nil {
				return nil, err
			}
			out = append(out, children...)
		}
	}
	return out, nil
}
