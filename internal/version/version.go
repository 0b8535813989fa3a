// Package version carries build-time version information, populated via
// ldflags by the release pipeline.
package version

import "fmt"

var (
	// Version is the current statgate version.
	Version = "dev"

	// Commit is the git commit hash.
	Commit = "unknown"

	// Date is the build date.
	Date = "unknown"
)

// Short returns the bare version string.
func Short() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// Full returns the complete version information.
func Full() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Short(), Commit, Date)
}
