package release

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Format is the distribution format of a build artifact.
type Format string

const (
	// FormatWheel is the language-ecosystem binary wheel format.
	FormatWheel Format = "wheel"
	// FormatCondaPackage is the conda-style platform package format.
	FormatCondaPackage Format = "conda_package"
)

// Artifact is a built, uploadable distribution file. It is produced by a
// build step of a single platform run and consumed by the matching upload
// step; there is no retention requirement after upload.
type Artifact struct {
	Platform Platform
	Format   Format
	Path     string
}

func (a Artifact) String() string {
	return fmt.Sprintf("%s/%s: %s", a.Platform, a.Format, a.Path)
}

// DiscoverWheels finds wheel artifacts under distDir (dist/*.whl).
func DiscoverWheels(distDir string, platform Platform) ([]Artifact, error) {
	return discover(distDir, "*.whl", platform, FormatWheel)
}

// DiscoverCondaPackages finds conda-style package artifacts under the
// platform's own output subdirectory (build/<os>-64/*.tar.bz2). A run
// never reads another platform's subdirectory.
func DiscoverCondaPackages(buildDir string, platform Platform) ([]Artifact, error) {
	dir := filepath.Join(buildDir, platform.Subdir())
	return discover(dir, "*.tar.bz2", platform, FormatCondaPackage)
}

func discover(dir, pattern string, platform Platform, format Format) ([]Artifact, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("artifact directory %s: %w", dir, err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing %s in %s: %w", pattern, dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no %s artifacts found in %s", format, dir)
	}

	sort.Strings(matches)

	artifacts := make([]Artifact, 0, len(matches))
	for _, m := range matches {
		artifacts = append(artifacts, Artifact{
			Platform: platform,
			Format:   format,
			Path:     m,
		})
	}
	return artifacts, nil
}
