package version

import (
	_ "embed"
	"strings"
)

// Version is the release tag baked into the binary at build time.
//
//go:embed VERSION
var Version string

// Get returns the release version, without surrounding whitespace.
func Get() string {
	return strings.TrimSpace(Version)
}
