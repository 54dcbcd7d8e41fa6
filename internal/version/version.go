// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata as a single human-readable line.
func String() string {
	return fmt.Sprintf("aossindex %s (commit %s, built %s)", Version, Commit, Date)
}
