package repo

import (
	"fmt"

	"github.com/sthobeck/lit/internal/objstore"
	"github.com/sthobeck/lit/internal/shelf"
	"github.com/sthobeck/lit/internal/tagstore"
)

// Status summarises the active branch for the log/status command.
type Status struct {
	Branch       string
	ShelvedCount int
	CommitCount  int
	ReadOnly     bool
	Tags         []*tagstore.Tag
}

// Status reports the active branch's name, shelved-change count,
// commit count, and read-only state, the line printed after every
// command:
//
//	current branch: '%s', %d change(s) shelved, with %d commit(s), %s.
func (r *Repository) Status() (*Status, error) {
	idx, b, err := r.ActiveBranch()
	if err != nil {
		return nil, err
	}
	shelved, err := shelf.Collect(r.Store, b.Name)
	if err != nil {
		return nil, fmt.Errorf("repo: status: %w", err)
	}
	tags, err := r.Tags()
	if err != nil {
		return nil, err
	}
	return &Status{
		Branch:       b.Name,
		ShelvedCount: len(shelved),
		CommitCount:  len(b.Commits),
		ReadOnly:     idx.ReadOnly,
		Tags:         tags,
	}, nil
}

// String renders a Status the way the original cli.c does.
func (s *Status) String() string {
	state := "writable"
	if s.ReadOnly {
		state = "read-only"
	}
	return fmt.Sprintf("current branch: '%s', %d change(s) shelved, with %d commit(s), %s.",
		s.Branch, s.ShelvedCount, s.CommitCount, state)
}

// Log returns the active branch's commits from its head back to the
// first, most recent first, bounded to maxCount entries (0 means
// unbounded). Commits after the head (following a rollback) are not
// included.
func (r *Repository) Log(maxCount int) ([]*objstore.Commit, error) {
	_, b, err := r.ActiveBranch()
	if err != nil {
		return nil, err
	}
	n := len(b.Commits)
	if maxCount > 0 && maxCount < n {
		n = maxCount
	}
	out := make([]*objstore.Commit, 0, n)
	for i := b.Head; i >= 0 && len(out) < n; i-- {
		out = append(out, b.Commits[i])
	}
	return out, nil
}
