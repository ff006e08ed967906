// Package version exposes build metadata injected at link time.
package version

import "time"

var (
	// Version is the release version (set via -ldflags).
	Version = ""
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
	// BuildTime is the build timestamp (set via -ldflags).
	BuildTime = ""
)

// Info is the resolved build metadata.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
}

// Resolve fills in defaults for fields the build left empty.
func Resolve() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
	if info.Version == "" {
		if info.BuildTime != "" {
			info.Version = info.BuildTime
		} else {
			info.Version = "dev-" + time.Now().UTC().Format("20060102")
		}
	}
	return info
}

// String renders the version as "v (commit)".
func String() string {
	info := Resolve()
	if info.Commit == "" {
		return info.Version
	}
	commit := info.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return info.Version + " (" + commit + ")"
}
