package repo

import (
	"fmt"

	"github.com/sthobeck/lit/internal/objstore"
	"github.com/sthobeck/lit/internal/shelf"
)

// Commit drains every diff shelved on the active branch into a new
// commit, appended to the branch's history. An empty shelving area is
// an error rather than a silent no-op, so scripted workflows fail
// loudly instead of producing empty commits.
func (r *Repository) Commit(message string) (*objstore.Commit, error) {
	idx, b, err := r.ActiveBranch()
	if err != nil {
		return nil, err
	}
	if err := r.requireWritable(idx); err != nil {
		return nil, err
	}

	changes, err := shelf.Drain(r.Store, b.Name)
	if err != nil {
		return nil, fmt.Errorf("repo: commit: %w", err)
	}
	if len(changes) == 0 {
		// Recreate the area even on failure, so a subsequent add/commit
		// cycle isn't left with a missing shelving directory.
		_ = shelf.Init(r.Store, b.Name)
		return nil, fmt.Errorf("repo: commit: nothing shelved on branch %q", b.Name)
	}

	c, err := objstore.NewCommit(message, changes)
	if err != nil {
		_ = shelf.Init(r.Store, b.Name)
		return nil, fmt.Errorf("repo: commit: %w", err)
	}

	b.Commits = append(b.Commits, c)
	b.Head = len(b.Commits) - 1
	if err := r.Store.WriteBranch(b); err != nil {
		return nil, fmt.Errorf("repo: commit: persist branch: %w", err)
	}
	if err := shelf.Init(r.Store, b.Name); err != nil {
		return nil, fmt.Errorf("repo: commit: reinitialise shelving area: %w", err)
	}

	idx.ReadOnly = false
	if err := r.Store.WriteIndex(idx); err != nil {
		return nil, fmt.Errorf("repo: commit: persist index: %w", err)
	}

	r.Log.Infof("added commit %q to branch %q with %d change(s)", c.Sha1.Hex(), b.Name, len(c.Changes))
	return c, nil
}
