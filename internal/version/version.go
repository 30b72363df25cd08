package version

// Version contains the application version information.
// Set via build-time ldflags in release builds:
// go build -ldflags "-X gitlab.com/nextmod/nextmod/internal/version.Version=v1.2.0".
var Version = "unknown"

// Build metadata, also set through ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	return Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
