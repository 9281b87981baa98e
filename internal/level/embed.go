// Package level loads navigation levels from YAML: terrain rows, legend,
// walkable codes, world config, palette, and agent spawns. Built-in levels
// are embedded at build time.
package level

import "embed"

// levelFS embeds all YAML files from this directory at build time.
//
//go:embed *.yaml
var levelFS embed.FS
