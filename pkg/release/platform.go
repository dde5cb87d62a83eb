package release

import "fmt"

// Platform identifies a build target in the release matrix.
type Platform string

const (
	// PlatformLinux is the Ubuntu-class build target.
	PlatformLinux Platform = "linux"
	// PlatformWindows is the Windows build target.
	PlatformWindows Platform = "windows"
)

// AllPlatforms is the fixed release matrix. Platforms are statically
// configured; they are not created or destroyed at runtime.
var AllPlatforms = []Platform{PlatformLinux, PlatformWindows}

// ParsePlatform parses a platform name.
func ParsePlatform(s string) (Platform, error) {
	switch s {
	case string(PlatformLinux), "linux-64", "ubuntu":
		return PlatformLinux, nil
	case string(PlatformWindows), "win-64", "win":
		return PlatformWindows, nil
	default:
		return "", fmt.Errorf("unknown platform: %q", s)
	}
}

// Subdir returns the platform-named output subdirectory used for
// conda-style package builds.
func (p Platform) Subdir() string {
	switch p {
	case PlatformLinux:
		return "linux-64"
	case PlatformWindows:
		return "win-64"
	default:
		return string(p)
	}
}

// SupportsWheel reports whether the wheel build/upload path applies to
// this platform. Wheels are built on the Ubuntu-class target only.
func (p Platform) SupportsWheel() bool {
	return p == PlatformLinux
}

func (p Platform) String() string {
	return string(p)
}
