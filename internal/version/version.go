// Package version provides build-time version information.
package version

import "fmt"

// Set with -ldflags "-X mockup-studio/internal/version.Version=..." at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns "v<version> (<commit>, built <time>)".
func String() string {
	return fmt.Sprintf("v%s (%s, built %s)", Version, GitCommit, BuildTime)
}
