// Package version carries the build identity of the cost report binary.
package version

import "runtime"

// Build information for the cost report tool, stamped at build time via
// ldflags. The defaults identify a local development build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the build information logged at startup
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
	}
}
