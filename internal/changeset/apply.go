// Package changeset applies commits to a working tree: forward
// (replaying a commit's diffs onto the filesystem) and inverse
// (undoing a commit).
package changeset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sthobeck/lit/internal/lineio"
	"github.com/sthobeck/lit/internal/objstore"
)

// Forward replays every diff in c, in order, onto the working directory
// rooted at root. It does not verify preconditions: a file-deleted diff
// whose stored_path is already gone is ignored rather than erroring,
// since the engine trusts commit order rather than re-checking it.
func Forward(root string, c *objstore.Commit) error {
	for _, d := range c.Changes {
		if err := forwardOne(root, d); err != nil {
			return err
		}
	}
	return nil
}

func forwardOne(root string, d *objstore.Diff) error {
	switch d.Kind {
	case objstore.FileNew:
		return writeForward(root, d)
	case objstore.FileModified:
		if d.StoredPath != d.NewPath {
			_ = os.Remove(filepath.Join(root, d.StoredPath))
		}
		return writeForward(root, d)
	case objstore.FolderNew:
		return os.MkdirAll(filepath.Join(root, d.NewPath), lineio.DirPerm)
	case objstore.FileDeleted, objstore.FolderDeleted:
		_ = os.RemoveAll(filepath.Join(root, d.StoredPath))
		return nil
	case objstore.FolderModified:
		return os.MkdirAll(filepath.Join(root, d.NewPath), lineio.DirPerm)
	default:
		return fmt.Errorf("changeset: forward apply: unknown diff kind %d", d.Kind)
	}
}

func writeForward(root string, d *objstore.Diff) error {
	lines := lineio.Forward(d.Lines)
	return lineio.WriteLines(filepath.Join(root, d.NewPath), lines)
}

// Inverse undoes every diff in c, in reverse application of Forward.
// Like Forward, it tolerates missing paths.
func Inverse(root string, c *objstore.Commit) error {
	for _, d := range c.Changes {
		if err := inverseOne(root, d); err != nil {
			return err
		}
	}
	return nil
}

func inverseOne(root string, d *objstore.Diff) error {
	switch d.Kind {
	case objstore.FileNew, objstore.FolderNew:
		_ = os.RemoveAll(filepath.Join(root, d.StoredPath))
		return nil
	case objstore.FileModified:
		if d.StoredPath != d.NewPath {
			_ = os.Remove(filepath.Join(root, d.NewPath))
		}
		return writeInverse(root, d)
	case objstore.FolderDeleted:
		return os.MkdirAll(filepath.Join(root, d.StoredPath), lineio.DirPerm)
	case objstore.FileDeleted:
		return writeInverse(root, d)
	case objstore.FolderModified:
		// Sibling folder-new/folder-deleted diffs handle the old path;
		// nothing to undo here beyond what Forward already skipped.
		return nil
	default:
		return fmt.Errorf("changeset: inverse apply: unknown diff kind %d", d.Kind)
	}
}

func writeInverse(root string, d *objstore.Diff) error {
	lines := lineio.Inverse(d.Lines)
	return lineio.WriteLines(filepath.Join(root, d.StoredPath), lines)
}
