// Package buildinfo carries version metadata stamped in at build time.
package buildinfo

import "runtime"

var (
	// Version is the semantic version, set by build flags.
	Version = "dev"
	// Commit is the git commit hash, set by build flags.
	Commit = "unknown"
	// BuildDate is the build date, set by build flags.
	BuildDate = "unknown"
)

// Info is a snapshot of the running binary's build metadata.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	Platform  string
}

// Get returns the current build's Info.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns the bare version.
func (i Info) String() string {
	return i.Version
}

// Full returns a detailed, human-readable version line.
func (i Info) Full() string {
	return i.Version + " (" + i.Commit + ") built " + i.BuildDate + " " + i.GoVersion + " " + i.Platform
}
