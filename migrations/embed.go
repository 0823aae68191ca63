// Package migrations embeds the goose SQL migrations for every supported driver.
package migrations

import "embed"

// FS holds one directory of migrations per database driver.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
