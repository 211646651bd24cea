package history

import "github.com/sthobeck/lit/internal/objstore"

// CommonAncestor walks b1 and b2 backward from their last commits,
// stepping the side whose current commit has the more recent timestamp,
// until a shared sha1 is found. It returns (commit, true) on a match, or
// (nil, false) if the branches share no commit identity.
func CommonAncestor(b1, b2 *objstore.Branch) (*objstore.Commit, bool) {
	i, j := len(b1.Commits)-1, len(b2.Commits)-1
	for i >= 0 && j >= 0 {
		c1, c2 := b1.Commits[i], b2.Commits[j]
		if c1.Sha1 == c2.Sha1 {
			return c1, true
		}
		if c1.RawTime >= c2.RawTime {
			i--
		} else {
			j--
		}
	}
	return nil, false
}
