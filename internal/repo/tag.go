package repo

import (
	"fmt"

	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/tagstore"
)

// AddTag records name as a reference to commitSha1, which must be a
// commit reachable on the active branch.
func (r *Repository) AddTag(name string, commitSha1 hashutil.Sha1) error {
	_, b, err := r.ActiveBranch()
	if err != nil {
		return err
	}
	pos := -1
	for i, c := range b.Commits {
		if c.Sha1 == commitSha1 {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("repo: add tag: commit %s not found on branch %q", commitSha1.Hex(), b.Name)
	}
	t := tagstore.NewTag(b, b.Commits[pos], name)
	if err := tagstore.Write(r.Store, t); err != nil {
		return fmt.Errorf("repo: add tag: %w", err)
	}
	r.Log.Infof("added tag %q to the repository", name)
	return nil
}

// DeleteTag removes the named tag.
func (r *Repository) DeleteTag(name string) error {
	if err := tagstore.Delete(r.Store, name); err != nil {
		return fmt.Errorf("repo: delete tag: %w", err)
	}
	r.Log.Infof("deleted tag %q from the repository", name)
	return nil
}

// Tags returns every tag recorded against the active branch.
func (r *Repository) Tags() ([]*tagstore.Tag, error) {
	_, b, err := r.ActiveBranch()
	if err != nil {
		return nil, err
	}
	all, err := tagstore.ReadAll(r.Store)
	if err != nil {
		return nil, fmt.Errorf("repo: tags: %w", err)
	}
	return tagstore.Filter(all, b.Sha1), nil
}
