// Package version reports how the seqmatch binary was built.
//
// Release builds inject Version, Commit and Date with -ldflags:
//
//	-X github.com/Aman-CERP/seqmatch/pkg/version.Version=1.2.0
//
// Plain `go build` binaries fall back to the VCS stamps the toolchain
// embeds, so a local build still reports the commit it came from.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Injected at link time.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

const unknown = "unknown"

// BuildInfo is the JSON shape of `seqmatch version --json`.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetInfo returns the build description of the running binary.
func GetInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = withVCS(info, bi.Settings)
	}
	if info.Commit == "" {
		info.Commit = unknown
	}
	if info.Date == "" {
		info.Date = unknown
	}
	return info
}

// withVCS fills commit and date that ldflags left empty from the toolchain's
// vcs.* build settings. Injected values always win, and Modified is only
// reported for a revision taken from VCS.
func withVCS(info BuildInfo, settings []debug.BuildSetting) BuildInfo {
	var fromVCS, modified bool
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = shortRevision(s.Value)
				fromVCS = true
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	info.Modified = fromVCS && modified
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// String is the one-line form printed by `seqmatch version`.
func String() string {
	info := GetInfo()
	commit := info.Commit
	if info.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("seqmatch %s (commit: %s, built: %s, go: %s)",
		info.Version, commit, info.Date, info.GoVersion)
}

// Short returns the bare version.
func Short() string {
	return Version
}
