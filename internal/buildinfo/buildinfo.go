// Package buildinfo carries version details injected at link time:
//
//	go build -ldflags "-X lcdshow/internal/buildinfo.Version=v1.2.0 -X lcdshow/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the version, falling back to the commit, for titles and
// banners.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String is the full line printed by -version.
func String() string {
	return fmt.Sprintf("lcdshow %s (commit %s, built %s)", Version, Commit, Date)
}
