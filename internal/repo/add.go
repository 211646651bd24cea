package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sthobeck/lit/internal/inw"
	"github.com/sthobeck/lit/internal/lineio"
	"github.com/sthobeck/lit/internal/objstore"
	"github.com/sthobeck/lit/internal/shelf"
)

// findRecentDiff searches the active branch's applied history
// (commits up to and including head, most recent first) for a
// file-new or file-modified diff whose new_path matches path.
func findRecentDiff(b *objstore.Branch, path string) *objstore.Diff {
	for i := b.Head; i >= 0; i-- {
		for _, d := range b.Commits[i].Changes {
			if d.NewPath != path {
				continue
			}
			if d.Kind == objstore.FileModified || d.Kind == objstore.FileNew {
				return d
			}
		}
	}
	return nil
}

// Add shelves a file-new or file-modified diff for path on the active
// branch. If path denotes a directory, a folder-new diff is shelved for
// it and each of its direct children is added individually (folders as
// folder-new, files as file-new/file-modified); if recurse is true, the
// walk also descends into every subdirectory.
func (r *Repository) Add(path string, recurse bool) error {
	idx, b, err := r.ActiveBranch()
	if err != nil {
		return err
	}
	if err := r.requireWritable(idx); err != nil {
		return err
	}

	info, err := os.Stat(filepath.Join(r.Root, path))
	if err != nil {
		return fmt.Errorf("repo: add: stat %s: %w", path, err)
	}

	if info.IsDir() {
		mode := inw.NoRecurse
		if recurse {
			mode = inw.Recurse
		}
		inodes, err := inw.Walk(filepath.Join(r.Root, path), mode)
		if err != nil {
			return fmt.Errorf("repo: add: walk %s: %w", path, err)
		}
		if err := r.shelveFolderNew(b, path); err != nil {
			return err
		}
		for _, ino := range inodes {
			rel, err := filepath.Rel(r.Root, ino.Path)
			if err != nil {
				return fmt.Errorf("repo: add: relativize %s: %w", ino.Path, err)
			}
			if ino.Kind == inw.Folder {
				if err := r.shelveFolderNew(b, rel); err != nil {
					return err
				}
				continue
			}
			if err := r.shelveFile(b, rel); err != nil {
				return err
			}
		}
		r.Log.Infof("shelved changes under %q on branch %q", path, b.Name)
		return nil
	}

	if err := r.shelveFile(b, path); err != nil {
		return err
	}
	r.Log.Infof("shelved changes for %q on branch %q", path, b.Name)
	return nil
}

func (r *Repository) shelveFolderNew(b *objstore.Branch, path string) error {
	d := objstore.NewFolderNew(path)
	return shelf.Shelve(r.Store, b.Name, d)
}

func (r *Repository) shelveFile(b *objstore.Branch, path string) error {
	abs := filepath.Join(r.Root, path)
	recent := findRecentDiff(b, path)
	if recent == nil {
		d, err := objstore.NewFileNew(abs)
		if err != nil {
			return fmt.Errorf("repo: add: %w", err)
		}
		d.StoredPath = path
		d.NewPath = path
		return shelf.Shelve(r.Store, b.Name, d)
	}

	tempPath := filepath.Join(r.Store.LitDir(), fmt.Sprintf("%d.tmp", time.Now().UnixNano()))
	if err := lineio.WriteLines(tempPath, lineio.Forward(recent.Lines)); err != nil {
		return fmt.Errorf("repo: add: reconstruct previous content: %w", err)
	}
	defer os.Remove(tempPath)

	d, err := objstore.NewFileModified(tempPath, abs)
	if err != nil {
		return fmt.Errorf("repo: add: %w", err)
	}
	d.StoredPath = path
	d.NewPath = path
	return shelf.Shelve(r.Store, b.Name, d)
}

// Delete shelves a deletion diff for path and removes it from the
// working tree. If path denotes a directory, its direct children (and,
// if recurse is true, every entry beneath it) are deleted individually
// before the directory itself.
func (r *Repository) Delete(path string, recurse bool) error {
	idx, b, err := r.ActiveBranch()
	if err != nil {
		return err
	}
	if err := r.requireWritable(idx); err != nil {
		return err
	}

	abs := filepath.Join(r.Root, path)
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("repo: delete: stat %s: %w", path, err)
	}

	if info.IsDir() {
		mode := inw.NoRecurse
		if recurse {
			mode = inw.Recurse
		}
		inodes, err := inw.Walk(abs, mode)
		if err != nil {
			return fmt.Errorf("repo: delete: walk %s: %w", path, err)
		}
		for i := len(inodes) - 1; i >= 0; i-- {
			ino := inodes[i]
			rel, err := filepath.Rel(r.Root, ino.Path)
			if err != nil {
				return fmt.Errorf("repo: delete: relativize %s: %w", ino.Path, err)
			}
			if err := r.shelveDelete(b, rel, ino.Kind == inw.Folder); err != nil {
				return err
			}
		}
		if err := r.shelveDelete(b, path, true); err != nil {
			return err
		}
		r.Log.Infof("shelved deletion of %q on branch %q", path, b.Name)
		return nil
	}

	if err := r.shelveDelete(b, path, false); err != nil {
		return err
	}
	r.Log.Infof("shelved deletion of %q on branch %q", path, b.Name)
	return nil
}

func (r *Repository) shelveDelete(b *objstore.Branch, path string, isFolder bool) error {
	abs := filepath.Join(r.Root, path)
	if isFolder {
		d := objstore.NewFolderDeleted(path)
		if err := shelf.Shelve(r.Store, b.Name, d); err != nil {
			return err
		}
		return os.RemoveAll(abs)
	}
	d, err := objstore.NewFileDeleted(abs)
	if err != nil {
		return fmt.Errorf("repo: delete: %w", err)
	}
	d.StoredPath, d.NewPath = path, path
	if err := shelf.Shelve(r.Store, b.Name, d); err != nil {
		return err
	}
	return os.Remove(abs)
}
