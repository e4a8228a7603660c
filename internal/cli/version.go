package cli

import "runtime/debug"

// version is set at release build time via
// -ldflags "-X github.com/radekjisa/volby-export/internal/cli.version=v1.2.3".
var version string

// Version reports the build version, falling back to the module build info
// for go-install builds.
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
