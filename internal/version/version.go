// Package version holds the build metadata stamped into the binary.
package version

// Stamped via -ldflags at release time; the defaults describe a plain
// source build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
