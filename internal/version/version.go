// Package version reports which cafencode build produced a set of fields.
package version

import "fmt"

// Overridden through -ldflags "-X pose-fields/internal/version.GitCommit=...".
var (
	Version   = "0.3.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line description for -version output.
func String() string {
	return fmt.Sprintf("pose-fields %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
