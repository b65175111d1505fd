// Package version records the build-time identity of the toolfang binary.
package version

import "fmt"

// Set at build time via -ldflags.
var (
	// Version is the semantic version of the release.
	Version = "dev"

	// Commit is the Git commit the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the one-line human-readable version.
func String() string {
	return fmt.Sprintf("toolfang %s (commit: %s, built: %s)", Version, Commit, Date)
}
