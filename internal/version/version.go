// Package version carries build metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/mAKEkr/blog-advance/internal/version.Version=v1.2.0"
package version

import "fmt"

// Version is the release version of the binary.
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line description for --version output.
func String() string {
	return fmt.Sprintf("blogadvance %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
