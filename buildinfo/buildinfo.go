// Package buildinfo exposes the values fixed when the binary is built:
// the build mode, the core version, and the optional crash-reporting endpoint.
//
// The mode is chosen with build tags (`-tags release` selects release), the
// string values with linker flags:
//
//	go build -tags release -ldflags "\
//	    -X github.com/go-lynx/desktop/buildinfo.version=1.2.0 \
//	    -X github.com/go-lynx/desktop/buildinfo.endpoint=https://key@o0.ingest.sentry.io/0"
package buildinfo

import (
	"runtime/debug"
)

// Mode is the build mode of the running binary.
type Mode int

const (
	// Debug builds never transmit crash reports and enable devtools by default.
	Debug Mode = iota
	// Release builds honor the configured sample rate.
	Release
)

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	switch m {
	case Debug:
		return "debug"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Set with -ldflags "-X ...".
var (
	name     = "lynx-desktop"
	version  = ""
	endpoint = ""
)

// fallbackVersion is reported when neither ldflags nor module info carry one.
const fallbackVersion = "0.1.0"

// CurrentMode returns the mode the binary was compiled in.
func CurrentMode() Mode {
	return mode
}

// IsDebug reports whether the binary was compiled without the release tag.
func IsDebug() bool {
	return mode == Debug
}

// Name returns the application name used for release identifiers and data directories.
func Name() string {
	return name
}

// Version returns the core version.
// Priority: ldflags value > main module version > fallbackVersion.
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return fallbackVersion
}

// Endpoint returns the crash-reporting endpoint baked in at build time, or "".
func Endpoint() string {
	return endpoint
}

// ReleaseName returns the release identifier reported to the crash-reporting backend,
// in the form name@version.
func ReleaseName() string {
	return name + "@" + Version()
}
