// Package version carries build metadata set through -ldflags.
package version

var (
	// Version is the release tag, e.g. -X github.com/ManuGH/streamgate/internal/version.Version=v0.2.0.
	Version = "v0.1.0"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String formats the metadata for --version output.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
