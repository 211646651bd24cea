// Package history implements the branch history engine: moving a
// branch's head backward or forward, creating/deleting/switching
// branches, common-ancestor detection, and rebase.
package history

import (
	"fmt"

	"github.com/sthobeck/lit/internal/changeset"
	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/objstore"
)

// indexOf returns the position of the commit with the given hash within
// b.Commits, or -1 if absent.
func indexOf(b *objstore.Branch, sha1 hashutil.Sha1) int {
	for i, c := range b.Commits {
		if c.Sha1 == sha1 {
			return i
		}
	}
	return -1
}

// Rollback moves b's head backward to the commit identified by target,
// inverse-applying every commit strictly between the old head and the
// target (inclusive of the old head, exclusive of the target) in
// reverse order. root is the working directory the diffs are applied
// against.
func Rollback(root string, b *objstore.Branch, target hashutil.Sha1) error {
	idx := indexOf(b, target)
	if idx < 0 {
		return fmt.Errorf("history: rollback: commit %s not on branch %q", target.Hex(), b.Name)
	}
	if idx >= b.Head {
		return fmt.Errorf("history: rollback: target commit is not older than head")
	}
	for i := b.Head; i > idx; i-- {
		if err := changeset.Inverse(root, b.Commits[i]); err != nil {
			return fmt.Errorf("history: rollback: inverse apply commit %d: %w", i, err)
		}
	}
	b.Head = idx
	return nil
}

// Checkout moves b's head forward to the commit identified by target,
// forward-applying every commit after the old head up to and including
// the target, in order.
func Checkout(root string, b *objstore.Branch, target hashutil.Sha1) error {
	idx := indexOf(b, target)
	if idx < 0 {
		return fmt.Errorf("history: checkout: commit %s not on branch %q", target.Hex(), b.Name)
	}
	if idx <= b.Head {
		return fmt.Errorf("history: checkout: target commit is not newer than head")
	}
	for i := b.Head + 1; i <= idx; i++ {
		if err := changeset.Forward(root, b.Commits[i]); err != nil {
			return fmt.Errorf("history: checkout: forward apply commit %d: %w", i, err)
		}
	}
	b.Head = idx
	return nil
}

// IsAtTip reports whether b's head sits on its last commit; the
// repository's readonly flag is the negation of this after a rollback
// or checkout.
func IsAtTip(b *objstore.Branch) bool {
	return b.Head == len(b.Commits)-1
}
