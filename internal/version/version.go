// Package version carries build-time version metadata.
package version

// These values are overridden at build time via -ldflags.
var (
	Version   = "0.1.0-dev"
	Commit    = ""
	BuildDate = ""
)
