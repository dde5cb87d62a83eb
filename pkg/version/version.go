// Package version reports the runner's build provenance.
package version

import (
	"runtime"
	"runtime/debug"
)

// Version, GitCommit and BuildDate are set via -ldflags at release
// build time, e.g.
//
//	-X github.com/release-ci-toolkit/release-runner/pkg/version.Version=v1.2.3
//
// When unset, values fall back to the build info the Go toolchain
// embeds in the binary.
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

// String returns the short version string.
func String() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}

// FullString returns a human-readable version line.
func FullString() string {
	v := String()
	if v == "dev" {
		return "release-runner development version"
	}
	return "release-runner " + v
}

// Info returns the facts shown by the version subcommand.
func Info() map[string]string {
	return map[string]string{
		"version":   String(),
		"buildDate": buildDate(),
		"gitCommit": commit(),
		"goVersion": runtime.Version(),
	}
}

func commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	if v := buildSetting("vcs.revision"); v != "" {
		return v
	}
	return "unknown"
}

func buildDate() string {
	if BuildDate != "" {
		return BuildDate
	}
	if v := buildSetting("vcs.time"); v != "" {
		return v
	}
	return "unknown"
}

func buildSetting(key string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
