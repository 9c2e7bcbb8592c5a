// Package standards embeds the default standards catalog.
package standards

import "embed"

// FS holds the catalog YAML files and per-standard prompt notes.
//
//go:embed *.yaml notes/*.md
var FS embed.FS
