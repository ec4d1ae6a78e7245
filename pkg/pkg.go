// Package pkg holds the identity of the edl tool and the error type shared by
// its command line layer.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It also names the configuration directory.
	Name = "edl"
	// Description is the one line summary shown in help output.
	Description = "Equipment description language compiler"
)
