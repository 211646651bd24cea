package history

import (
	"fmt"

	"github.com/sthobeck/lit/internal/changeset"
	"github.com/sthobeck/lit/internal/objstore"
)

// originBranchName is the one branch DeleteBranch refuses to remove. It
// equals config.DefaultOriginBranch, the name repo.Init gives the first
// branch unless the configuration names another.
const originBranchName = "origin"

// CreateBranch allocates a new branch named name, sharing (not copying)
// source's commits up to and including its head, and appends it to idx.
// Fails if name already exists in idx.
func CreateBranch(s *objstore.Store, idx *objstore.Index, name string, source *objstore.Branch) (*objstore.Branch, error) {
	for _, existing := range idx.Branches {
		if existing == name {
			return nil, fmt.Errorf("history: create branch: %q already exists", name)
		}
	}
	b := objstore.NewBranch(name)
	if source.Head >= 0 {
		b.Commits = append(b.Commits, source.Commits[:source.Head+1]...)
		b.Head = source.Head
	}
	if err := s.WriteBranch(b); err != nil {
		return nil, fmt.Errorf("history: create branch: %w", err)
	}
	idx.Branches = append(idx.Branches, name)
	if err := s.WriteIndex(idx); err != nil {
		return nil, fmt.Errorf("history: create branch: persist index: %w", err)
	}
	return b, nil
}

// DeleteBranch removes the named branch's ref and shifts it out of idx.
// Refuses to remove "origin" or a name that doesn't exist.
func DeleteBranch(s *objstore.Store, idx *objstore.Index, name string) error {
	if name == originBranchName {
		return fmt.Errorf("history: delete branch: cannot delete %q", originBranchName)
	}
	pos := -1
	for i, existing := range idx.Branches {
		if existing == name {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("history: delete branch: %q does not exist", name)
	}
	if idx.Active == pos {
		return fmt.Errorf("history: delete branch: %q is the active branch", name)
	}
	if err := s.DeleteBranch(name); err != nil {
		return err
	}
	if idx.Active > pos {
		idx.Active--
	}
	idx.Branches = append(idx.Branches[:pos], idx.Branches[pos+1:]...)
	if err := s.WriteIndex(idx); err != nil {
		return fmt.Errorf("history: delete branch: persist index: %w", err)
	}
	return nil
}

// SwitchResult reports whether a common ancestor was found during a
// Switch, for the caller to log a warning when one wasn't.
type SwitchResult struct {
	AncestorFound bool
}

// Switch moves the working tree (rooted at root) from current to
// target: inverse-applying current's history back to their common
// ancestor (or, absent one, all of current's history) and forward-
// applying target's history from there up to its head. It updates idx's
// active position to target's position among idx.Branches.
func Switch(root string, idx *objstore.Index, current, target *objstore.Branch) (SwitchResult, error) {
	ancestor, found := CommonAncestor(current, target)

	if !found {
		for i := current.Head; i >= 0; i-- {
			if err := changeset.Inverse(root, current.Commits[i]); err != nil {
				return SwitchResult{}, fmt.Errorf("history: switch: inverse apply: %w", err)
			}
		}
		for i := 0; i <= target.Head; i++ {
			if err := changeset.Forward(root, target.Commits[i]); err != nil {
				return SwitchResult{}, fmt.Errorf("history: switch: forward apply: %w", err)
			}
		}
	} else {
		aIdxCurrent := indexOf(current, ancestor.Sha1)
		for i := current.Head; i > aIdxCurrent; i-- {
			if err := changeset.Inverse(root, current.Commits[i]); err != nil {
				return SwitchResult{}, fmt.Errorf("history: switch: inverse apply: %w", err)
			}
		}
		aIdxTarget := indexOf(target, ancestor.Sha1)
		for i := aIdxTarget + 1; i <= target.Head; i++ {
			if err := changeset.Forward(root, target.Commits[i]); err != nil {
				return SwitchResult{}, fmt.Errorf("history: switch: forward apply: %w", err)
			}
		}
	}

	pos := -1
	for i, name := range idx.Branches {
		if name == target.Name {
			pos = i
			break
		}
	}
	if pos < 0 {
		return SwitchResult{}, fmt.Errorf("history: switch: target branch %q not in repository index", target.Name)
	}
	idx.Active = pos
	return SwitchResult{AncestorFound: found}, nil
}
