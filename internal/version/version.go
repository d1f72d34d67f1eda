// Package version carries build metadata stamped in via -ldflags.
package version

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "0.1.0"

	// Commit is the git commit hash the binary was built from.
	Commit = "unknown"
)

// String formats the version for startup logs and the about dialog.
func String() string {
	return fmt.Sprintf("v%s (%s)", Version, Commit)
}
