// Package version reports lit's build identity: a version string
// plumbed in via -ldflags at build time, falling back to "dev" when
// built without them.
package version

import "fmt"

// These are overridden at build time via:
//
//	go build -ldflags "-X github.com/sthobeck/lit/version.Version=1.2.3 \
//	  -X github.com/sthobeck/lit/version.Commit=abc123 \
//	  -X github.com/sthobeck/lit/version.BuildDate=2026-07-30"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Print renders app's name, version, commit, and build date as a single
// banner line suitable for a CLI's --version output.
func Print(app string) string {
	return fmt.Sprintf("%s version %s (commit %s, built %s)", app, Version, Commit, BuildDate)
}
