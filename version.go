package walker

import _ "embed"

// Version is the release of the walker module.
//
//go:embed VERSION
var Version string
