// Package version carries build metadata injected at link time via
// -ldflags "-X github.com/amanthanvi/assetvault/internal/version.Version=...".
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
