// Package version reports build metadata injected at link time.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set via -ldflags "-X github.com/dkoosis/zdefects/internal/version.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String formats the build metadata on one line. A dev build falls back to
// the module version recorded by the Go toolchain, when there is one.
func String() string {
	v := Version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("zdefects %s (commit %s, built %s)", v, CommitHash, BuildDate)
}
