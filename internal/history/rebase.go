package history

import (
	"errors"
	"fmt"

	"github.com/sthobeck/lit/internal/changeset"
	"github.com/sthobeck/lit/internal/hashutil"
	"github.com/sthobeck/lit/internal/objstore"
)

// ErrConflict is what the *RebaseError returned by RebaseOnto unwraps to
// when two commits at the same position past the common ancestor touch
// the same new_path.
var ErrConflict = errors.New("history: rebase: conflicting commits")

// Conflict describes one colliding pair of diffs found during rebase:
// the source and destination commits that collide, and the two diffs'
// CRCs, so a caller can name both commits and both diffs when reporting
// the conflict.
type Conflict struct {
	Index        int
	NewPath      string
	SourceCommit hashutil.Sha1
	DestCommit   hashutil.Sha1
	SourceCrc    hashutil.Crc32
	DestCrc      hashutil.Crc32
}

// RebaseError wraps ErrConflict with the full set of detected conflicts.
type RebaseError struct {
	Conflicts []Conflict
}

func (e *RebaseError) Error() string {
	return fmt.Sprintf("history: rebase: %d conflicting path(s)", len(e.Conflicts))
}

func (e *RebaseError) Unwrap() error { return ErrConflict }

// RebaseOnto replays source (S) onto destination (D): finds their common
// ancestor, checks the overlapping commit range for path conflicts, and
// on success appends S's unshared commits to D. If active reports that D
// is the currently checked-out branch, each appended commit is
// forward-applied to root in order. s is used to persist the extended
// destination branch. For each colliding commit pair only the first
// pair of diffs found sharing a new_path is recorded as a Conflict;
// further colliding diffs in the same commit pair are not reported.
func RebaseOnto(s *objstore.Store, root string, destination, source *objstore.Branch, active bool) error {
	ancestor, found := CommonAncestor(destination, source)
	if !found {
		return fmt.Errorf("history: rebase: no common ancestor between %q and %q", destination.Name, source.Name)
	}
	a := indexOf(destination, ancestor.Sha1)

	upper := source.Head + 1
	if len(source.Commits) < upper {
		upper = len(source.Commits)
	}
	if len(destination.Commits) < upper {
		upper = len(destination.Commits)
	}

	var conflicts []Conflict
	for i := a + 1; i < upper; i++ {
		sc, dc := source.Commits[i], destination.Commits[i]
		if path, sourceCrc, destCrc, ok := conflictingPath(sc, dc); ok {
			conflicts = append(conflicts, Conflict{
				Index:        i,
				NewPath:      path,
				SourceCommit: sc.Sha1,
				DestCommit:   dc.Sha1,
				SourceCrc:    sourceCrc,
				DestCrc:      destCrc,
			})
		}
	}
	if len(conflicts) > 0 {
		return &RebaseError{Conflicts: conflicts}
	}

	appended := source.Commits[a+1:]
	destination.Commits = append(destination.Commits, appended...)

	if active {
		for _, c := range appended {
			if err := changeset.Forward(root, c); err != nil {
				return fmt.Errorf("history: rebase: forward apply appended commit: %w", err)
			}
		}
		destination.Head = len(destination.Commits) - 1
	} else {
		destination.Head += len(appended)
	}

	if err := s.WriteBranch(destination); err != nil {
		return fmt.Errorf("history: rebase: persist destination branch: %w", err)
	}
	return nil
}

// conflictingPath reports whether any diff in sc shares a new_path with
// any diff in dc, returning the path and both diffs' CRCs.
func conflictingPath(sc, dc *objstore.Commit) (path string, sourceCrc, destCrc hashutil.Crc32, ok bool) {
	for _, sd := range sc.Changes {
		for _, dd := range dc.Changes {
			if sd.NewPath == dd.NewPath {
				return sd.NewPath, sd.Crc, dd.Crc, true
			}
		}
	}
	return "", 0, 0, false
}
