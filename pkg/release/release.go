// Package release defines the domain model for release publishing runs.
package release

// Event represents a published release, as delivered by the repository
// hosting platform. It is immutable for the lifetime of a pipeline run.
type Event struct {
	// Tag is the git tag of the release (e.g. "v1.4.0").
	Tag string
	// Name is the human-readable release name.
	Name string
	// Prerelease marks the release as not-yet-stable. It selects the
	// distribution channel for the package registry upload.
	Prerelease bool
}

// Channel is the distribution channel for a package registry upload.
type Channel string

const (
	// ChannelMain is the default, unlabeled channel for stable releases.
	ChannelMain Channel = "main"
	// ChannelDev is the label used for pre-releases.
	ChannelDev Channel = "dev"
)

// ChannelFor derives the publish channel from the release event.
// It is a pure function of the prerelease flag.
func ChannelFor(ev Event) Channel {
	if ev.Prerelease {
		return ChannelDev
	}
	return ChannelMain
}

// Label returns the registry label argument for the channel.
// The main channel is unlabeled and returns the empty string.
func (c Channel) Label() string {
	if c == ChannelDev {
		return "dev"
	}
	return ""
}
