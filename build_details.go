package ramltools

import (
	"runtime/debug"
)

// version is stamped at release time via -ldflags. Builds straight from
// source leave it empty and fall back to the module build info.
var version = ""

// Version reports the ramltools build version. It prefers the release
// stamp, then the module version recorded by the toolchain, then "dev".
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// UserAgent returns the value ramltools-based clients should send in a
// User-Agent header.
func UserAgent() string {
	return "ramltools/" + Version()
}
