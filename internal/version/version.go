package version

import "fmt"

// Overridden at build time with -ldflags "-X .../internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// String renders the build as "dev (none)" or "v1.2.0 (abc123, dirty)".
func String() string {
	if Dirty == "true" {
		return fmt.Sprintf("%s (%s, dirty)", Version, Commit)
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
