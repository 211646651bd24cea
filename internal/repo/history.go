package repo

import (
	"fmt"
	"os"

	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/history"
	"github.com/sthobeck/lit/internal/objstore"
	"github.com/sthobeck/lit/internal/shelf"
)

// Rollback moves the active branch's head backward to target,
// inverse-applying every commit in between, and sets the repository
// read-only unless the resulting head is the branch tip.
func (r *Repository) Rollback(target hashutil.Sha1, hard bool) error {
	idx, b, err := r.ActiveBranch()
	if err != nil {
		return err
	}
	if err := history.Rollback(r.Root, b, target); err != nil {
		return fmt.Errorf("repo: rollback: %w", err)
	}
	if err := r.Store.WriteBranch(b); err != nil {
		return fmt.Errorf("repo: rollback: persist branch: %w", err)
	}
	idx.ReadOnly = !history.IsAtTip(b)
	if err := r.Store.WriteIndex(idx); err != nil {
		return fmt.Errorf("repo: rollback: persist index: %w", err)
	}
	if idx.ReadOnly {
		r.Log.Warn("treat rollbacks and checkouts as read-only; changing files could damage your working tree")
	}
	if hard {
		if err := r.clearShelved(b.Name); err != nil {
			return err
		}
	}
	return nil
}

// Checkout moves the active branch's head forward to target,
// forward-applying every commit in between.
func (r *Repository) Checkout(target hashutil.Sha1, hard bool) error {
	idx, b, err := r.ActiveBranch()
	if err != nil {
		return err
	}
	if err := history.Checkout(r.Root, b, target); err != nil {
		return fmt.Errorf("repo: checkout: %w", err)
	}
	if err := r.Store.WriteBranch(b); err != nil {
		return fmt.Errorf("repo: checkout: persist branch: %w", err)
	}
	idx.ReadOnly = !history.IsAtTip(b)
	if err := r.Store.WriteIndex(idx); err != nil {
		return fmt.Errorf("repo: checkout: persist index: %w", err)
	}
	if idx.ReadOnly {
		r.Log.Warn("treat rollbacks and checkouts as read-only; changing files could damage your working tree")
	}
	if hard {
		if err := r.clearShelved(b.Name); err != nil {
			return err
		}
	}
	return nil
}

// clearShelved discards every diff shelved on branch without committing
// it, mirroring the original's --hard rollback/checkout handling
// (collect_shelved followed by removing each inode in cli.c).
func (r *Repository) clearShelved(branch string) error {
	inodes, err := shelf.Collect(r.Store, branch)
	if err != nil {
		return err
	}
	for _, ino := range inodes {
		if err := os.RemoveAll(ino.Path); err != nil {
			return fmt.Errorf("repo: clear shelved: remove %s: %w", ino.Path, err)
		}
	}
	return nil
}

// CreateBranch creates a new branch named name, copying source's commit
// references (not deep copies) up to and including its head.
func (r *Repository) CreateBranch(name, source string) (*objstore.Branch, error) {
	idx, err := r.Store.ReadIndex()
	if err != nil {
		return nil, err
	}
	src, err := r.Store.ReadBranch(source)
	if err != nil {
		return nil, fmt.Errorf("repo: create branch: read source %q: %w", source, err)
	}
	b, err := history.CreateBranch(r.Store, idx, name, src)
	if err != nil {
		return nil, fmt.Errorf("repo: create branch: %w", err)
	}
	if err := shelf.Init(r.Store, name); err != nil {
		return nil, err
	}
	r.Log.Infof("created branch %q from %q", name, source)
	return b, nil
}

// DeleteBranch removes the named branch, refusing the configured origin
// branch, "origin", and the active branch.
func (r *Repository) DeleteBranch(name string) error {
	if name == r.Config.OriginBranch {
		return fmt.Errorf("repo: delete branch: cannot delete origin branch %q", name)
	}
	idx, err := r.Store.ReadIndex()
	if err != nil {
		return err
	}
	if err := history.DeleteBranch(r.Store, idx, name); err != nil {
		return fmt.Errorf("repo: delete branch: %w", err)
	}
	r.Log.Infof("deleted branch %q", name)
	return nil
}

// SwitchBranch switches the active branch to target, replaying history
// between the two branches' common ancestor (or, absent one, undoing
// current and redoing target in full).
func (r *Repository) SwitchBranch(target string) error {
	idx, current, err := r.ActiveBranch()
	if err != nil {
		return err
	}
	targetBranch, err := r.Store.ReadBranch(target)
	if err != nil {
		return fmt.Errorf("repo: switch: read target %q: %w", target, err)
	}
	result, err := history.Switch(r.Root, idx, current, targetBranch)
	if err != nil {
		return fmt.Errorf("repo: switch: %w", err)
	}
	if !result.AncestorFound {
		r.Log.Warnf("no common ancestor between %q and %q; resetting working tree", current.Name, target)
	}
	if err := r.Store.WriteIndex(idx); err != nil {
		return fmt.Errorf("repo: switch: persist index: %w", err)
	}
	r.Log.Infof("switched active branch to %q", target)
	return nil
}

// RebaseBranch rebases source onto destination. active reports whether
// destination is currently checked out, so appended commits get
// forward-applied immediately when it is.
func (r *Repository) RebaseBranch(destination, source string, active bool) error {
	dst, err := r.Store.ReadBranch(destination)
	if err != nil {
		return fmt.Errorf("repo: rebase: read destination %q: %w", destination, err)
	}
	src, err := r.Store.ReadBranch(source)
	if err != nil {
		return fmt.Errorf("repo: rebase: read source %q: %w", source, err)
	}
	if err := history.RebaseOnto(r.Store, r.Root, dst, src, active); err != nil {
		return err
	}
	r.Log.Infof("successfully rebased %q onto %q", source, destination)
	return nil
}
