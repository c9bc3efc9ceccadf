// Package version carries build metadata set through ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/knowledgelib/internal/version.Version=v1.0.0"
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Commit returns GitCommit, falling back to the VCS revision stamped by the
// go toolchain.
func Commit() string {
	if GitCommit != "unknown" && GitCommit != "" {
		return GitCommit
	}
	info, ok := readBuildInfo()
	if !ok {
		return GitCommit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return GitCommit
}

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("knowledgelib %s (commit %s, built %s)", Version, Commit(), BuildTime)
}
