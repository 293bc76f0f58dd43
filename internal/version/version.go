// Package version reports how the forbin CLI and client library were built.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags "-X github.com/forbin-capital/forbin-go/internal/version.Version=$(git describe --tags) \
//	                   -X github.com/forbin-capital/forbin-go/internal/version.Commit=$(git rev-parse --short HEAD)" ./cmd/forbin
package version

import (
	"fmt"
	"runtime"
)

// Stamped at build time. Unstamped builds report "dev".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// IsRelease reports whether Version was stamped by a release build.
func IsRelease() bool {
	return Version != "dev"
}

// String is the line printed by "forbin version".
func String() string {
	return fmt.Sprintf("forbin %s (commit %s, built %s, %s %s/%s)",
		Version, Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent identifies the client library to the Forbin API, e.g.
// "forbin-go/0.4.0 (linux/amd64)".
func UserAgent() string {
	return fmt.Sprintf("forbin-go/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
