package repo

import (
	"fmt"

	"github.com/sthobeck/lit/internal/cache"
	"github.com/sthobeck/lit/internal/objstore"
)

// ClearCache scavenges .lit/objects of every commit and diff no longer
// reachable from any branch, loading the full branch set as the root
// set for the mark-and-sweep pass.
func (r *Repository) ClearCache() (cache.Report, error) {
	names, err := r.Store.ListBranches()
	if err != nil {
		return cache.Report{}, fmt.Errorf("repo: clear cache: %w", err)
	}
	branches := make([]*objstore.Branch, 0, len(names))
	for _, name := range names {
		b, err := r.Store.ReadBranch(name)
		if err != nil {
			return cache.Report{}, fmt.Errorf("repo: clear cache: read branch %q: %w", name, err)
		}
		branches = append(branches, b)
	}
	report, err := cache.Scavenge(r.Store, branches)
	if err != nil {
		return report, fmt.Errorf("repo: clear cache: %w", err)
	}
	r.Log.Infof("cleared cache: removed %d object(s) and %d empty directory(ies)", report.RemovedFiles, report.RemovedDirs)
	return report, nil
}
