package ghdb

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the library version.
var Version = strings.TrimSpace(rawVersion)
