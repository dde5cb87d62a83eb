package version

import (
	"strings"
	"testing"
)

func TestLdflagsOverride(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version = "v1.4.0"
	GitCommit = "abc1234"
	BuildDate = "2026-08-23"

	if got := String(); got != "v1.4.0" {
		t.Errorf("String() = %q", got)
	}
	if got := FullString(); got != "release-runner v1.4.0" {
		t.Errorf("FullString() = %q", got)
	}

	info := Info()
	if info["gitCommit"] != "abc1234" {
		t.Errorf("gitCommit = %q", info["gitCommit"])
	}
	if info["buildDate"] != "2026-08-23" {
		t.Errorf("buildDate = %q", info["buildDate"])
	}
}

func TestInfoKeys(t *testing.T) {
	info := Info()
	for _, key := range []string{"version", "buildDate", "gitCommit", "goVersion"} {
		if info[key] == "" {
			t.Errorf("Info() missing %s", key)
		}
	}
	// goVersion comes from the runtime, never from ldflags.
	if !strings.HasPrefix(info["goVersion"], "go") {
		t.Errorf("goVersion = %q", info["goVersion"])
	}
}

func TestDevFallback(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()
	Version = "dev"

	// Test binaries carry no release version in their build info, so
	// the development fallback applies.
	if got := FullString(); !strings.Contains(got, "release-runner") {
		t.Errorf("FullString() = %q", got)
	}
}
